package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRules(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  []Rule
		wantR LoadResult
	}{
		{name: "single rule", text: "p1;p2=r1;r2",
			want:  []Rule{{Patterns: []string{"p1", "p2"}, Replies: []string{"r1", "r2"}}},
			wantR: LoadResult{Rules: 1}},
		{name: "trimmed tokens and empty parts dropped", text: "  p1 ; ;p2 =  r1;;  r2 ",
			want:  []Rule{{Patterns: []string{"p1", "p2"}, Replies: []string{"r1", "r2"}}},
			wantR: LoadResult{Rules: 1}},
		{name: "crlf and empty lines", text: "a=b\r\n\r\n   \r\nc;d=e\rf=g\n",
			want: []Rule{
				{Patterns: []string{"a"}, Replies: []string{"b"}},
				{Patterns: []string{"c", "d"}, Replies: []string{"e"}},
				{Patterns: []string{"f"}, Replies: []string{"g"}},
			},
			wantR: LoadResult{Rules: 3}},
		{name: "no separator", text: "just text", want: []Rule{}, wantR: LoadResult{Skipped: 1}},
		{name: "two separators", text: "a=b=c\nx=y", want: []Rule{{Patterns: []string{"x"}, Replies: []string{"y"}}},
			wantR: LoadResult{Rules: 1, Skipped: 1}},
		{name: "empty patterns", text: " ; =reply", want: []Rule{}, wantR: LoadResult{Skipped: 1}},
		{name: "empty replies", text: "pattern= ;; ", want: []Rule{}, wantR: LoadResult{Skipped: 1}},
		{name: "empty text", text: "", want: []Rule{}, wantR: LoadResult{}},
		{name: "whitespace text", text: " \n\t\r\n", want: []Rule{}, wantR: LoadResult{}},
		{name: "cyrillic", text: "даун=Единственный тут даун это ты",
			want:  []Rule{{Patterns: []string{"даун"}, Replies: []string{"Единственный тут даун это ты"}}},
			wantR: LoadResult{Rules: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, lr := ParseRules(tt.text, DefaultFormat)
			assert.Equal(t, tt.want, rules)
			assert.Equal(t, tt.wantR, lr)
		})
	}
}

func TestParseRules_LegacyFormat(t *testing.T) {
	rules, lr := ParseRules("привет, здорово=Ну привет; как сам\nbad line", LegacyFormat)
	assert.Equal(t, LoadResult{Rules: 1, Skipped: 1}, lr)
	assert.Equal(t, []Rule{{Patterns: []string{"привет", "здорово"}, Replies: []string{"Ну привет; как сам"}}}, rules)
}

func TestParseRules_EmptyFormatIsDefault(t *testing.T) {
	rules, _ := ParseRules("a;b=c;d", Format{})
	assert.Equal(t, []Rule{{Patterns: []string{"a", "b"}, Replies: []string{"c", "d"}}}, rules)
}

func TestFormatByName(t *testing.T) {
	f, ok := FormatByName("")
	assert.True(t, ok)
	assert.Equal(t, DefaultFormat, f)

	f, ok = FormatByName(" Legacy ")
	assert.True(t, ok)
	assert.Equal(t, LegacyFormat, f)

	_, ok = FormatByName("yaml")
	assert.False(t, ok)
}
