package antiflood

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 3, p.Repeat.Threshold)
	assert.Equal(t, 60*time.Second, p.Repeat.Window)
	assert.Equal(t, 0.8, p.SimilarityRatio)
	assert.Equal(t, 5, p.MentionSingle)
	assert.Equal(t, 60*time.Second, p.MaxWindow())
}

func TestPolicy_MaxWindow(t *testing.T) {
	p := DefaultPolicy()
	p.Link.Window = 5 * time.Minute
	assert.Equal(t, 5*time.Minute, p.MaxWindow())
	p.Frequency.Window = 10 * time.Minute
	assert.Equal(t, 10*time.Minute, p.MaxWindow())
}

func TestParsePolicy(t *testing.T) {
	t.Run("empty object gives defaults", func(t *testing.T) {
		p, replaced, err := ParsePolicy([]byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), p)
		assert.Len(t, replaced, 16)
	})

	t.Run("full policy", func(t *testing.T) {
		data := `{"repeat_window":5,"repeat_count":2,"frequency_window":3,"frequency_count":10,
			"similarity_threshold":0.9,"similarity_window":20,"similarity_count":5,"keyword_window":30,
			"keyword_count":7,"media_window":15,"media_count":4,"at_single_limit":3,"at_window":40,
			"at_window_limit":8,"link_window":50,"link_count":2}`
		p, replaced, err := ParsePolicy([]byte(data))
		require.NoError(t, err)
		assert.Empty(t, replaced)
		assert.Equal(t, Rule{Window: 5 * time.Second, Threshold: 2}, p.Repeat)
		assert.Equal(t, Rule{Window: 3 * time.Second, Threshold: 10}, p.Frequency)
		assert.Equal(t, Rule{Window: 20 * time.Second, Threshold: 5}, p.Similarity)
		assert.Equal(t, 0.9, p.SimilarityRatio)
		assert.Equal(t, Rule{Window: 30 * time.Second, Threshold: 7}, p.Keyword)
		assert.Equal(t, Rule{Window: 15 * time.Second, Threshold: 4}, p.Media)
		assert.Equal(t, 3, p.MentionSingle)
		assert.Equal(t, Rule{Window: 40 * time.Second, Threshold: 8}, p.Mention)
		assert.Equal(t, Rule{Window: 50 * time.Second, Threshold: 2}, p.Link)
	})

	t.Run("invalid fields replaced", func(t *testing.T) {
		p, replaced, err := ParsePolicy([]byte(`{"repeat_window":-1,"repeat_count":0,"similarity_threshold":1.5,"link_window":0.5}`))
		require.NoError(t, err)
		def := DefaultPolicy()
		assert.Equal(t, def.Repeat, p.Repeat)
		assert.Equal(t, def.SimilarityRatio, p.SimilarityRatio)
		assert.Equal(t, 500*time.Millisecond, p.Link.Window)
		assert.Contains(t, replaced, "repeat_window")
		assert.Contains(t, replaced, "repeat_count")
		assert.Contains(t, replaced, "similarity_threshold")
		assert.NotContains(t, replaced, "link_window")
	})

	t.Run("malformed json", func(t *testing.T) {
		for _, data := range []string{`{"repeat_window":`, `[1,2]`, `"abc"`} {
			p, _, err := ParsePolicy([]byte(data))
			require.Error(t, err, data)
			assert.Equal(t, DefaultPolicy(), p, data)
		}
	})
}

func TestParsePolicy_MixedFields(t *testing.T) {
	def := DefaultPolicy()
	tbl := []struct {
		name     string
		data     string
		check    func(t *testing.T, p Policy)
		replaced []string // fields expected in replaced list
		kept     []string // fields expected to be taken from input
	}{
		{
			name: "wrong typed count keeps other fields",
			data: `{"repeat_count":"5","frequency_count":4}`,
			check: func(t *testing.T, p Policy) {
				assert.Equal(t, def.Repeat, p.Repeat)
				assert.Equal(t, 4, p.Frequency.Threshold)
			},
			replaced: []string{"repeat_count"}, kept: []string{"frequency_count"},
		},
		{
			name: "wrong typed window keeps other fields",
			data: `{"repeat_window":"abc","repeat_count":2,"link_window":true,"link_count":5}`,
			check: func(t *testing.T, p Policy) {
				assert.Equal(t, Rule{Window: def.Repeat.Window, Threshold: 2}, p.Repeat)
				assert.Equal(t, Rule{Window: def.Link.Window, Threshold: 5}, p.Link)
			},
			replaced: []string{"repeat_window", "link_window"}, kept: []string{"repeat_count", "link_count"},
		},
		{
			name: "fractional counts truncated",
			data: `{"repeat_count":2.5,"at_single_limit":3.9,"media_count":0.5}`,
			check: func(t *testing.T, p Policy) {
				assert.Equal(t, 2, p.Repeat.Threshold)
				assert.Equal(t, 3, p.MentionSingle)
				assert.Equal(t, def.Media.Threshold, p.Media.Threshold)
			},
			replaced: []string{"media_count"}, kept: []string{"repeat_count", "at_single_limit"},
		},
		{
			name: "object, array and null values",
			data: `{"similarity_threshold":{"v":1},"keyword_count":[3],"media_window":null,"keyword_window":12}`,
			check: func(t *testing.T, p Policy) {
				assert.Equal(t, def.SimilarityRatio, p.SimilarityRatio)
				assert.Equal(t, Rule{Window: 12 * time.Second, Threshold: def.Keyword.Threshold}, p.Keyword)
				assert.Equal(t, def.Media, p.Media)
			},
			replaced: []string{"similarity_threshold", "keyword_count", "media_window"}, kept: []string{"keyword_window"},
		},
		{
			name: "window overflowing duration",
			data: `{"repeat_window":1e12,"at_window":9300000000,"link_window":86400}`,
			check: func(t *testing.T, p Policy) {
				assert.Equal(t, def.Repeat.Window, p.Repeat.Window)
				assert.Equal(t, def.Mention.Window, p.Mention.Window)
				assert.Equal(t, 24*time.Hour, p.Link.Window)
				assert.Positive(t, p.MaxWindow())
			},
			replaced: []string{"repeat_window", "at_window"}, kept: []string{"link_window"},
		},
		{
			name: "huge count",
			data: `{"frequency_count":1e20}`,
			check: func(t *testing.T, p Policy) {
				assert.Equal(t, def.Frequency.Threshold, p.Frequency.Threshold)
			},
			replaced: []string{"frequency_count"},
		},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			p, replaced, err := ParsePolicy([]byte(tt.data))
			require.NoError(t, err)
			tt.check(t, p)
			for _, r := range tt.replaced {
				assert.Contains(t, replaced, r)
			}
			for _, k := range tt.kept {
				assert.NotContains(t, replaced, k)
			}

			var up Policy
			require.NoError(t, json.Unmarshal([]byte(tt.data), &up))
			assert.Equal(t, p, up)
		})
	}
}

func TestSecondsToDuration(t *testing.T) {
	tbl := []struct {
		secs float64
		res  time.Duration
		ok   bool
	}{
		{1, time.Second, true},
		{0.25, 250 * time.Millisecond, true},
		{0, 0, false},
		{-5, 0, false},
		{MaxWindowSeconds, time.Duration(MaxWindowSeconds) * time.Second, true},
		{MaxWindowSeconds + 1, 0, false},
		{1e12, 0, false},
	}
	for _, tt := range tbl {
		res, ok := SecondsToDuration(tt.secs)
		assert.Equal(t, tt.ok, ok, tt.secs)
		assert.Equal(t, tt.res, res, tt.secs)
	}
}

func TestPolicy_JSONRoundTrip(t *testing.T) {
	p := DefaultPolicy()
	p.Repeat = Rule{Window: 5 * time.Second, Threshold: 3}
	p.SimilarityRatio = 0.7

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"repeat_window":5`)
	assert.Contains(t, string(data), `"similarity_threshold":0.7`)

	var res Policy
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, p, res)
}

func TestPolicy_UnmarshalJSONPartial(t *testing.T) {
	var s struct {
		Spam Policy `json:"spam"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"spam":{"link_count":7}}`), &s))
	assert.Equal(t, 7, s.Spam.Link.Threshold)
	assert.Equal(t, DefaultPolicy().Repeat, s.Spam.Repeat)

	require.Error(t, json.Unmarshal([]byte(`{"spam":[1,2]}`), &s))
}

func TestPolicy_String(t *testing.T) {
	s := DefaultPolicy().String()
	assert.Contains(t, s, "repeat:3/1m0s")
	assert.Contains(t, s, "similarity:4/1m0s@0.80")
	assert.Contains(t, s, "at_single:5")
}
