package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kiosko/internal/core/id"
	"kiosko/internal/core/types"
)

func TestCopyValue(t *testing.T) {
	num, ok := copyValue(types.MustMoney("10.25")).(pgtype.Numeric)
	require.True(t, ok)
	assert.True(t, num.Valid)
	assert.Equal(t, int64(1025), num.Int.Int64())
	assert.Equal(t, int32(-2), num.Exp)

	lotID := id.New()
	u, ok := copyValue(&lotID).(pgtype.UUID)
	require.True(t, ok)
	assert.Equal(t, [16]byte(lotID), u.Bytes)

	var missing *id.ID
	assert.Nil(t, copyValue(missing))
	assert.Equal(t, "LOT-1", copyValue("LOT-1"))
	assert.Equal(t, int64(3), copyValue(int64(3)))
}
