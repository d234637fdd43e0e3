package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/repositories"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct's validate tags and flattens failures into
// one Validation error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return apperr.Validation("%s", strings.Join(msgs, ", "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s digits", field, fe.Param())
	case "datetime":
		return field + " must be a YYYY-MM-DD date"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// trimPtr trims a string pointer in place; blank strings become nil.
func trimPtr(p **string) {
	if *p == nil {
		return
	}
	v := strings.TrimSpace(**p)
	if v == "" {
		*p = nil
		return
	}
	*p = &v
}

func requireAuthenticated(caller auth.Caller) error {
	if !caller.IsAuthenticated() {
		return apperr.NotAuthenticated()
	}
	return nil
}

func requireAdminOrCoordinator(caller auth.Caller) error {
	if !caller.IsAuthenticated() {
		return apperr.NotAuthenticated()
	}
	if !caller.IsAdminOrCoordinator() {
		return apperr.Forbidden(constants.MsgAdminOrCoordOnly)
	}
	return nil
}

func requireSelfOrAdminOrCoordinator(caller auth.Caller, userID string) error {
	if !caller.IsAuthenticated() {
		return apperr.NotAuthenticated()
	}
	if caller.Owns(userID) || caller.IsAdminOrCoordinator() {
		return nil
	}
	return apperr.Forbidden("not allowed to access another member's records")
}

// notFoundOr maps a repository miss to a NotFound error and anything else to BackendUnavailable.
func notFoundOr(err error, notFound error, op string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound
	}
	return apperr.Backend(op, err)
}

// readWithRetry retries a read once when the store is unavailable. Writes never go through here.
func readWithRetry[T any](ctx context.Context, read func() (T, error)) (T, error) {
	v, err := read()
	if err == nil || apperr.KindOf(err) != apperr.KindBackendUnavailable || ctx.Err() != nil {
		return v, err
	}
	return read()
}

// Clock lets tests pin "today".
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

func (c Clock) today() string { return c.now().Format(constants.DateLayout) }

// memberIdentity is the display pair shown next to rows that reference a member.
type memberIdentity struct {
	Name string
	UID  string
}

func identityOf(profiles map[string]gormModels.Profile, userID string) memberIdentity {
	p, ok := profiles[userID]
	if !ok {
		return memberIdentity{Name: constants.MsgUnknownMember, UID: constants.MsgUnknownMemberUID}
	}
	return memberIdentity{Name: p.FullName(), UID: p.UID}
}

func uniqueUserIDs[T any](rows []T, userID func(T) string) []string {
	seen := make(map[string]bool, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		id := userID(r)
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
