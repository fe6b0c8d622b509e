package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTypeFollowsWrappedCauses(t *testing.T) {
	inner := InvalidInput("quantity must be positive, got %d", 0)
	outer := Wrap(TypeConfig, "loading catalog", inner)
	viaFmt := fmt.Errorf("quote: %w", outer)

	assert.True(t, IsType(inner, TypeInvalidInput))
	assert.True(t, IsType(outer, TypeConfig))
	assert.True(t, IsType(outer, TypeInvalidInput))
	assert.True(t, IsType(viaFmt, TypeInvalidInput))
	assert.False(t, IsType(viaFmt, TypeArithmeticInvariant))
	assert.False(t, IsType(fmt.Errorf("plain"), TypeInvalidInput))
	assert.False(t, IsType(nil, TypeInvalidInput))
}

func TestErrorMessageAndContext(t *testing.T) {
	err := UnknownConfiguration("tier", "Gold").WithContext("feature", "collaborators")

	assert.Equal(t, `[UNKNOWN_CONFIGURATION] unknown tier: "Gold"`, err.Error())
	assert.Equal(t, "collaborators", err.Context["feature"])
	assert.True(t, err.Is(TypeUnknownConfiguration))

	wrapped := Parsing("bad catalog", fmt.Errorf("line 3"))
	assert.Equal(t, "[PARSING_ERROR] bad catalog: line 3", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "line 3")
}
