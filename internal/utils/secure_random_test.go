package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^TXN-\d+-[0-9A-Z]{9}$`)

func TestGenerateReference_Format(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ref, err := GenerateReference("TXN", now)
	require.NoError(t, err)

	assert.Regexp(t, referencePattern, ref)
	assert.Contains(t, ref, "-1709294400000-")
}

func TestGenerateReference_FundingPrefix(t *testing.T) {
	ref, err := GenerateReference("FUND", time.Now())
	require.NoError(t, err)
	assert.Regexp(t, `^FUND-\d+-[0-9A-Z]{9}$`, ref)
}

func TestGenerateSecureBase36_DistinctUnderLoad(t *testing.T) {
	seen := make(map[string]struct{}, 5000)
	for i := 0; i < 5000; i++ {
		s, err := GenerateSecureBase36()
		require.NoError(t, err)
		require.Len(t, s, ReferenceSuffixLength)
		_, dup := seen[s]
		assert.False(t, dup, "suffix %s generated twice", s)
		seen[s] = struct{}{}
	}
}

func TestGenerateRoutingNumber(t *testing.T) {
	for i := 0; i < 200; i++ {
		rn, err := GenerateRoutingNumber()
		require.NoError(t, err)
		require.Regexp(t, `^(0[1-9]|1[0-2])\d{7}$`, rn)
		assert.True(t, ValidRoutingNumber(rn), "check digit wrong for %s", rn)
	}
}

func TestValidRoutingNumber(t *testing.T) {
	assert.True(t, ValidRoutingNumber("021000021"))
	assert.True(t, ValidRoutingNumber("011000015"))
	assert.False(t, ValidRoutingNumber("021000022"))
	assert.False(t, ValidRoutingNumber("02100002"))
	assert.False(t, ValidRoutingNumber("02100002A"))
}
