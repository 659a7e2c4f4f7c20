package pkgerrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type ErrResponse struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
}

func (e ErrResponse) Error() string {
	return e.Message
}

/* Two responses are the same kind of error when they share a code, whatever the detail in the message. */
func (e ErrResponse) Is(target error) bool {
	t, ok := target.(ErrResponse)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

var ErrResponseEntryBlankFields = ErrResponse{100, "required fields must be filled correctly."}
var ErrResponseNotFound = ErrResponse{101, "entity not found"}
var ErrResponseEntryInvalidJSON = ErrResponse{102, "invalid json request."}
var ErrResponseIdInvalidFormat = ErrResponse{103, "the endpoint is not a valid format ID. Must be an integer"}
var ErrResponseValidation = ErrResponse{104, "invalid input: "}
var ErrResponseReferenceNotFound = ErrResponse{105, "referenced entity not found: "}
var ErrResponseTransactionFailure = ErrResponse{106, "transaction failed: "}
var ErrResponseFromRepository = ErrResponse{108, "error from repository: "}
var ErrResponseRequestTimeout = ErrResponse{109, "error from context:"}
var ErrResponseUnknownEntityType = ErrResponse{110, "unknown entity type: "}
var ErrResponseSubgraphUnavailable = ErrResponse{111, "subgraph unavailable: "}

/* Returns a copy of base with detail appended to its message. */
func WithDetail(base ErrResponse, detail string) ErrResponse {
	return ErrResponse{
		Code:    base.Code,
		Message: base.Message + detail,
	}
}

func NotFound(entity string, id int) ErrResponse {
	return ErrResponse{
		Code:    ErrResponseNotFound.Code,
		Message: fmt.Sprintf("could not find %s with identifier: %d", entity, id),
	}
}

func ReferenceNotFound(entity string, ids []int) ErrResponse {
	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, fmt.Sprint(id))
	}
	return WithDetail(ErrResponseReferenceNotFound, fmt.Sprintf("%s %s", entity, strings.Join(strIDs, ", ")))
}

func Validation(err error) ErrResponse {
	return WithDetail(ErrResponseValidation, err.Error())
}

/*
Classifies an error coming back from a store call. Context errors keep their identity,
responses from the taxonomy pass through and anything else becomes a repository error.
*/
func FromRepository(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("timeout on call to %s: %w", op, err)
	}
	var errResp ErrResponse
	if errors.As(err, &errResp) {
		return err
	}
	return WithDetail(ErrResponseFromRepository, err.Error())
}

/*
Wraps a commit or begin failure. The original error stays reachable through errors.Is/As
because the returned error joins both.
*/
func TransactionFailure(err error) error {
	return errors.Join(WithDetail(ErrResponseTransactionFailure, err.Error()), err)
}
