package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fanoutLike struct {
	PostID      uint64   `json:"post_id" validate:"required"`
	FollowerIDs []uint64 `json:"follower_ids,omitempty" validate:"required,min=1"`
}

func TestValidateDTOReportsJSONName(t *testing.T) {
	require.NoError(t, ValidateDTO(fanoutLike{PostID: 1, FollowerIDs: []uint64{2}}))

	err := ValidateDTO(fanoutLike{FollowerIDs: []uint64{2}})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "post_id", vErr.Field)
	assert.Equal(t, "required", vErr.Rule)

	err = ValidateDTO(&fanoutLike{PostID: 1, FollowerIDs: []uint64{}})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "follower_ids", vErr.Field)
	assert.Equal(t, "min", vErr.Rule)
}
