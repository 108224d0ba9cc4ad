package absence

type Reason string

const (
	ReasonSickLeave Reason = "sick_leave"
	ReasonVacation  Reason = "vacation"
	ReasonEmergency Reason = "emergency"
	ReasonTraining  Reason = "training"
	ReasonPersonal  Reason = "personal"
	ReasonOther     Reason = "other"
)

func ParseReason(s string) (Reason, bool) {
	switch Reason(s) {
	case ReasonSickLeave, ReasonVacation, ReasonEmergency,
		ReasonTraining, ReasonPersonal, ReasonOther:
		return Reason(s), true
	}
	return "", false
}
