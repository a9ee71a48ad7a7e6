package types

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKindStatus(t *testing.T) {
	cases := map[ErrorKind]int{
		KindValidation:     http.StatusBadRequest,
		KindAuthentication: http.StatusUnauthorized,
		KindAuthorization:  http.StatusForbidden,
		KindNotFound:       http.StatusNotFound,
		KindConflict:       http.StatusConflict,
		KindUnexpected:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestUnexpectedErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := UnexpectedError(cause)

	assert.Equal(t, "An unexpected error occurred", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestAsCustomErrorThroughWrapping(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NotFoundError("Home"))

	ce, ok := AsCustomError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Home not found", ce.Message)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}

func TestFlexListAcceptsObjectOrArray(t *testing.T) {
	type item struct {
		N int `json:"n"`
	}

	var one FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(`{"n": 1}`), &one))
	assert.Equal(t, FlexList[item]{{N: 1}}, one)

	var many FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(`[{"n": 1}, {"n": 2}]`), &many))
	assert.Len(t, many, 2)

	var none FlexList[item]
	require.NoError(t, json.Unmarshal([]byte(`null`), &none))
	assert.Nil(t, none)
}

func TestFlexUint(t *testing.T) {
	var v struct {
		ID FlexUint `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7}`), &v))
	assert.Equal(t, uint(7), v.ID.Uint())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "12"}`), &v))
	assert.Equal(t, uint(12), v.ID.Uint())

	assert.Error(t, json.Unmarshal([]byte(`{"id": "abc"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"id": -1}`), &v))
}

func TestOptionalTracksPresence(t *testing.T) {
	var in struct {
		Name  Optional[string] `json:"name"`
		Notes Optional[string] `json:"notes"`
		Count Optional[int]    `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name": "Hope", "notes": null}`), &in))

	assert.True(t, in.Name.Present())
	assert.Equal(t, "Hope", in.Name.Get())

	assert.True(t, in.Notes.Set)
	assert.False(t, in.Notes.Present())

	assert.False(t, in.Count.Set)
	assert.Equal(t, 0, in.Count.Get())
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	type payload struct {
		Email  string `json:"email" validate:"required,email"`
		Status string `json:"status" validate:"omitempty,oneof=pending done"`
		Name   string `json:"name" validate:"max=3"`
	}

	err := ValidateStruct(&payload{Email: "nope"})
	ce, ok := AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, ce.Kind)
	assert.Equal(t, "email", ce.Field)
	assert.Equal(t, "email must be a valid email address", ce.Message)

	err = ValidateStructWithPrefix(&payload{Email: "a@b.co", Status: "other"}, "items[2]")
	ce, ok = AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, "items[2].status", ce.Field)
	assert.Equal(t, "items[2].status must be one of: pending, done", ce.Message)

	err = ValidateStruct(&payload{Email: "a@b.co", Name: "toolong"})
	ce, ok = AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, "name must be at most 3 characters", ce.Message)

	assert.NoError(t, ValidateStruct(&payload{Email: "a@b.co"}))
}
