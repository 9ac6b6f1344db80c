package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "invalid_path", StatusInvalidPath.String())
	assert.Equal(t, "coordination_type_missing", StatusShapeMissing.String())
	assert.Equal(t, "unexpected_failure", StatusUnexpected.String())
	assert.Equal(t, "status(7)", Status(7).String())
}

func TestStatusCodesAreStable(t *testing.T) {
	assert.Equal(t, Status(0), StatusOK)
	assert.Equal(t, Status(-1), StatusInvalidPath)
	assert.Equal(t, Status(-2), StatusShapeMissing)
	assert.Equal(t, Status(-99), StatusUnexpected)
}

func TestErrorDetail_Error(t *testing.T) {
	var nilDetail *ErrorDetail
	assert.Empty(t, nilDetail.Error())

	d := &ErrorDetail{Message: "boom", Type: "hook", Code: "OnStart"}
	assert.Equal(t, "hook: boom [OnStart]", d.Error())

	assert.Equal(t, "plain", (&ErrorDetail{Message: "plain"}).Error())
}
