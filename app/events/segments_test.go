package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Message
	}{
		{
			name: "segments",
			data: `[{"type":"text","data":{"text":"hi "}},{"type":"at","data":{"qq":123456}},
				{"type":"image","data":{"file":"a.jpg","url":"http://x"}},{"type":"video","data":{"file":"v.mp4"}},
				{"type":"face","data":{"id":"14"}}]`,
			want: Message{TextSegment{Text: "hi "}, MentionSegment{QQ: "123456"}, ImageSegment{File: "a.jpg"},
				VideoSegment{File: "v.mp4"}, OtherSegment{Type: "face", Data: map[string]string{"id": "14"}}},
		},
		{
			name: "string with cq codes",
			data: `"hello [CQ:at,qq=1] look [CQ:image,file=b.png,summary=&#91;pic&#93;]"`,
			want: Message{TextSegment{Text: "hello "}, MentionSegment{QQ: "1"}, TextSegment{Text: " look "},
				ImageSegment{File: "b.png"}},
		},
		{
			name: "plain string",
			data: `"just text &amp; more"`,
			want: Message{TextSegment{Text: "just text & more"}},
		},
		{name: "empty array", data: `[]`, want: Message{}},
		{name: "null", data: `null`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Message
			require.NoError(t, json.Unmarshal([]byte(tt.data), &m))
			assert.Equal(t, tt.want, m)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		var m Message
		assert.Error(t, json.Unmarshal([]byte(`{"type":"text"}`), &m))
		assert.Error(t, json.Unmarshal([]byte(`123`), &m))
	})
}

func TestMessage_MarshalJSON(t *testing.T) {
	m := Message{TextSegment{Text: "hi"}, MentionSegment{QQ: "42"}, ImageSegment{File: "a.jpg"},
		VideoSegment{File: "v.mp4"}, OtherSegment{Type: "reply"}}
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"type":"text","data":{"text":"hi"}},{"type":"at","data":{"qq":"42"}},
		{"type":"image","data":{"file":"a.jpg"}},{"type":"video","data":{"file":"v.mp4"}},{"type":"reply","data":{}}]`,
		string(data))

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Message{TextSegment{Text: "hi"}, MentionSegment{QQ: "42"}, ImageSegment{File: "a.jpg"},
		VideoSegment{File: "v.mp4"}, OtherSegment{Type: "reply", Data: map[string]string{}}}, back)
}

func TestParseCQ(t *testing.T) {
	tests := []struct {
		in   string
		want Message
	}{
		{"", Message{}},
		{"text", Message{TextSegment{Text: "text"}}},
		{"[CQ:at,qq=all]", Message{MentionSegment{QQ: "all"}}},
		{"[CQ:face,id=1][CQ:video,file=x]", Message{OtherSegment{Type: "face", Data: map[string]string{"id": "1"}},
			VideoSegment{File: "x"}}},
		{"[CQ:shake]!", Message{OtherSegment{Type: "shake", Data: map[string]string{}}, TextSegment{Text: "!"}}},
		{"a &#91;not cq&#93;", Message{TextSegment{Text: "a [not cq]"}}},
		{"[CQ:text,text=a&#44;b]", Message{TextSegment{Text: "a,b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCQ(tt.in))
		})
	}
}

func TestExtractors(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		text     string
		media    bool
		mentions int
		link     bool
	}{
		{name: "empty", msg: nil},
		{name: "text only", msg: Message{TextSegment{Text: "  hello "}, TextSegment{Text: "world  "}}, text: "hello world"},
		{name: "image", msg: Message{ImageSegment{File: "a"}}, media: true},
		{name: "video with text", msg: Message{VideoSegment{File: "a"}, TextSegment{Text: "look"}}, text: "look", media: true},
		{name: "mentions", msg: Message{MentionSegment{QQ: "1"}, TextSegment{Text: " hi "}, MentionSegment{QQ: "2"},
			MentionSegment{QQ: "1"}}, text: "hi", mentions: 3},
		{name: "http link", msg: Message{TextSegment{Text: "see https://example.com/x"}}, text: "see https://example.com/x", link: true},
		{name: "www link", msg: Message{TextSegment{Text: "go www.spam.site now"}}, text: "go www.spam.site now", link: true},
		{name: "bare domain", msg: Message{TextSegment{Text: "join spam-club.xyz"}}, text: "join spam-club.xyz", link: true},
		{name: "not a link", msg: Message{TextSegment{Text: "end of sentence.next one"}}, text: "end of sentence.next one"},
		{name: "link in other segment ignored", msg: Message{OtherSegment{Type: "json",
			Data: map[string]string{"data": "http://x.com"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, SegmentsText(tt.msg))
			assert.Equal(t, tt.media, HasMedia(tt.msg))
			assert.Equal(t, tt.mentions, MentionCount(tt.msg))
			assert.Equal(t, tt.link, HasLink(tt.msg))
		})
	}
}
