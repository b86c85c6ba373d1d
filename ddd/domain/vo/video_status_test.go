package vo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoStatusIsValid(t *testing.T) {
	valid := []VideoStatus{
		VideoStatusUploaded,
		VideoStatusMerging,
		VideoStatusTranscoding,
		VideoStatusReady,
		VideoStatusFailed,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "status %s should be valid", s)
	}

	assert.False(t, VideoStatus("").IsValid())
	assert.False(t, VideoStatus("processing").IsValid())
}

func TestVideoStatusTransitions(t *testing.T) {
	cases := []struct {
		from    VideoStatus
		to      VideoStatus
		allowed bool
	}{
		{VideoStatusUploaded, VideoStatusMerging, true},
		{VideoStatusMerging, VideoStatusTranscoding, true},
		{VideoStatusTranscoding, VideoStatusReady, true},

		// 不允许跳级或回退
		{VideoStatusUploaded, VideoStatusTranscoding, false},
		{VideoStatusUploaded, VideoStatusReady, false},
		{VideoStatusMerging, VideoStatusReady, false},
		{VideoStatusMerging, VideoStatusUploaded, false},
		{VideoStatusTranscoding, VideoStatusMerging, false},

		// failed可从任意非终态进入
		{VideoStatusUploaded, VideoStatusFailed, true},
		{VideoStatusMerging, VideoStatusFailed, true},
		{VideoStatusTranscoding, VideoStatusFailed, true},

		// 终态不能再转换
		{VideoStatusReady, VideoStatusFailed, false},
		{VideoStatusFailed, VideoStatusFailed, false},
		{VideoStatusReady, VideoStatusMerging, false},
		{VideoStatusFailed, VideoStatusUploaded, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestVideoStatusIsFinal(t *testing.T) {
	assert.True(t, VideoStatusReady.IsFinalStatus())
	assert.True(t, VideoStatusFailed.IsFinalStatus())
	assert.False(t, VideoStatusUploaded.IsFinalStatus())
	assert.False(t, VideoStatusMerging.IsFinalStatus())
	assert.False(t, VideoStatusTranscoding.IsFinalStatus())
}
