package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/usecase"
)

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrTooManyCases, usecase.ErrUserNotFound)).False()
	gt.Bool(t, errors.Is(usecase.ErrUserNotFound, usecase.ErrNoteRequired)).False()
	gt.Bool(t, errors.Is(usecase.ErrNoteRequired, model.ErrCaseNotFound)).False()
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		ok   bool
	}{
		{
			name: "too many cases",
			err:  goerr.Wrap(usecase.ErrTooManyCases, "rejected", goerr.V(usecase.CaseCountKey, 9)),
			want: "Too many cases for expanded view. Please use compact view instead.",
			ok:   true,
		},
		{
			name: "wrapped case not found",
			err:  goerr.Wrap(model.ErrCaseNotFound, "lookup"),
			want: "Case not found",
			ok:   true,
		},
		{
			name: "moderator not found",
			err:  goerr.Wrap(usecase.ErrModeratorNotFound, "filter"),
			want: "Moderator not found",
			ok:   true,
		},
		{
			name: "note required",
			err:  usecase.ErrNoteRequired,
			want: "Text or attachment required",
			ok:   true,
		},
		{
			name: "internal failure",
			err:  errors.New("connection reset"),
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := usecase.UserMessage(tt.err)
			gt.Value(t, ok).Equal(tt.ok)
			gt.Value(t, msg).Equal(tt.want)
		})
	}
}
