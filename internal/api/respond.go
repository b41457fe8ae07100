package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/divvyhq/divvy/internal/auth"
	"github.com/divvyhq/divvy/internal/ledger"
	"github.com/divvyhq/divvy/internal/money"
	"github.com/divvyhq/divvy/internal/service"
	"github.com/divvyhq/divvy/internal/storage"
)

// errorBody is the JSON shape of every failure response. Code is one of the
// stable error kinds clients branch on; MaxPayable is only set for
// EXCEEDS_MAX_PAYABLE.
type errorBody struct {
	Code       string  `json:"code"`
	Message    string  `json:"message"`
	MaxPayable *string `json:"maxPayable,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps domain failures to HTTP statuses and stable error codes.
// Everything recognized here is a recoverable, user-facing failure; only
// unexpected errors become 500s.
func writeError(w http.ResponseWriter, err error) {
	var exceeds *ledger.ExceedsMaxPayableError
	if errors.As(err, &exceeds) {
		max := exceeds.Max.String()
		writeJSON(w, http.StatusBadRequest, errorBody{
			Code:       "EXCEEDS_MAX_PAYABLE",
			Message:    err.Error(),
			MaxPayable: &max,
		})
		return
	}

	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrTooManyDecimal):
		status, code = http.StatusBadRequest, "INVALID_AMOUNT"
	case errors.Is(err, ledger.ErrNothingToPay):
		status, code = http.StatusBadRequest, "NOTHING_TO_PAY"
	case errors.Is(err, ledger.ErrReceiverNotOwed):
		status, code = http.StatusBadRequest, "RECEIVER_NOT_OWED"
	case errors.Is(err, ledger.ErrModifyWindowExpired):
		status, code = http.StatusBadRequest, "MODIFY_WINDOW_EXPIRED"
	case errors.Is(err, storage.ErrGroupNotFound):
		status, code = http.StatusNotFound, "GROUP_NOT_FOUND"
	case errors.Is(err, storage.ErrExpenseNotFound):
		status, code = http.StatusNotFound, "EXPENSE_NOT_FOUND"
	case errors.Is(err, service.ErrConcurrentConflict):
		status, code = http.StatusConflict, "CONCURRENT_CONFLICT"
	case errors.Is(err, service.ErrGroupClosed):
		status, code = http.StatusBadRequest, "GROUP_CLOSED"
	case errors.Is(err, service.ErrSplitMismatch):
		status, code = http.StatusBadRequest, "SPLIT_MISMATCH"
	case errors.Is(err, service.ErrMemberNotInGroup):
		status, code = http.StatusBadRequest, "MEMBER_NOT_IN_GROUP"
	case errors.Is(err, service.ErrSelfPayment):
		status, code = http.StatusBadRequest, "SELF_PAYMENT"
	case errors.Is(err, service.ErrNotGroupMember):
		status, code = http.StatusForbidden, "NOT_GROUP_MEMBER"
	case errors.Is(err, service.ErrNotGroupAdmin):
		status, code = http.StatusForbidden, "NOT_GROUP_ADMIN"
	case errors.Is(err, service.ErrNotExpensePayer):
		status, code = http.StatusForbidden, "NOT_EXPENSE_PAYER"
	case errors.Is(err, auth.ErrEmailExists):
		status, code = http.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, auth.ErrWeakPassword):
		status, code = http.StatusBadRequest, "WEAK_PASSWORD"
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, storage.ErrUserNotFound):
		status, code = http.StatusNotFound, "USER_NOT_FOUND"
	}

	if status == http.StatusInternalServerError {
		slog.Error("Request failed with internal error", "error", err)
		// Don't leak internals to the client.
		writeJSON(w, status, errorBody{Code: code, Message: "internal error"})
		return
	}
	writeJSON(w, status, errorBody{Code: code, Message: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
