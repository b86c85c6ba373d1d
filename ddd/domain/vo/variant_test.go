package vo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLadderOrder(t *testing.T) {
	ladder := DefaultLadder()
	require.Len(t, ladder, 4)

	names := make([]string, 0, len(ladder))
	for _, v := range ladder {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"360p", "480p", "720p", "1080p"}, names)

	// 阶梯必须按码率升序排列
	for i := 1; i < len(ladder); i++ {
		assert.Greater(t, ladder[i].Bitrate, ladder[i-1].Bitrate)
		assert.Greater(t, ladder[i].Height, ladder[i-1].Height)
	}
}

func TestVariantDerivedRates(t *testing.T) {
	v := VariantSpec{Name: "720p", Height: 720, Bitrate: 2_500_000, Bandwidth: 2_500_000, Resolution: "1280x720"}

	assert.Equal(t, 2500, v.TargetBitrateK())
	assert.Equal(t, 2675, v.MaxrateK()) // 2500k * 1.07
	assert.Equal(t, 3750, v.BufsizeK()) // 2500k * 1.5
	assert.Equal(t, "scale=-2:720", v.ScaleFilter())
}

func TestVariantDerivedRatesLowTier(t *testing.T) {
	v := VariantSpec{Name: "360p", Height: 360, Bitrate: 800_000}

	assert.Equal(t, 800, v.TargetBitrateK())
	assert.Equal(t, 856, v.MaxrateK())
	assert.Equal(t, 1200, v.BufsizeK())
}
