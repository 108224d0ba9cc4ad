package absence

// ===============================
// Approval State
// ===============================

// ApprovalState substitui o antigo is_approved (null/true/false).
type ApprovalState string

const (
	StatePending  ApprovalState = "pending"
	StateApproved ApprovalState = "approved"
	StateRejected ApprovalState = "rejected"
)

func ParseState(s string) (ApprovalState, bool) {
	switch ApprovalState(s) {
	case StatePending, StateApproved, StateRejected:
		return ApprovalState(s), true
	}
	return "", false
}

func (s ApprovalState) IsTerminal() bool {
	return s == StateApproved || s == StateRejected
}

// CanDecide: só pedidos pendentes podem ser aprovados ou rejeitados.
func (s ApprovalState) CanDecide() bool {
	return s == StatePending
}

// IsApproved devolve a forma tri-state usada pela UI.
func (s ApprovalState) IsApproved() *bool {
	var v bool
	switch s {
	case StateApproved:
		v = true
	case StateRejected:
		v = false
	default:
		return nil
	}
	return &v
}
