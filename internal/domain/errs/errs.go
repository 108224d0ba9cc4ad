// Package errs reúne a taxonomia de erros do fluxo de ausências e
// reatribuição. Cada tipo estruturado desembrulha para um sentinel, então
// chamadores podem usar errors.Is / errors.As.
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINELS
// =============================================================================

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrState                = errors.New("invalid state")
	ErrIncompleteResolution = errors.New("incomplete resolution")
	ErrAssignmentConflict   = errors.New("assignment conflict")
	ErrConflict             = errors.New("conflict")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ValidationError: entrada do chamador viola uma regra estrutural.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Validation(code, message string) error {
	return &ValidationError{Code: code, Message: message}
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StateError: a ausência não está no estado exigido pela operação.
type StateError struct {
	AbsenceID uint
	Current   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("absence %d is %s, expected pending", e.AbsenceID, e.Current)
}

func (e *StateError) Unwrap() error { return ErrState }

// IncompleteResolutionError lista os agendamentos afetados sem decisão.
type IncompleteResolutionError struct {
	Missing []uint
}

func (e *IncompleteResolutionError) Error() string {
	ids := make([]string, 0, len(e.Missing))
	for _, id := range e.Missing {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("missing resolution for bookings [%s]", strings.Join(ids, ","))
}

func (e *IncompleteResolutionError) Unwrap() error { return ErrIncompleteResolution }

func IncompleteResolution(missing []uint) error {
	sorted := append([]uint(nil), missing...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return &IncompleteResolutionError{Missing: sorted}
}

// AssignmentConflictError: o barbeiro de destino não pode assumir o agendamento.
type AssignmentConflictError struct {
	BookingID uint
	BarberID  uint
	Reason    string
}

func (e *AssignmentConflictError) Error() string {
	return fmt.Sprintf("cannot assign booking %d to barber %d: %s", e.BookingID, e.BarberID, e.Reason)
}

func (e *AssignmentConflictError) Unwrap() error { return ErrAssignmentConflict }

// ConflictError: pedido de ausência sobreposto a outro não rejeitado.
type ConflictError struct {
	ExistingID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlaps absence %d", e.ExistingID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }
