package rule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipChrisLee/drm/internal/errs"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Rule
	}{
		{
			name:  "everything",
			input: "(:)[:]",
			want:  Rule{Window: Window{Start: NegInf, End: PosInf}},
		},
		{
			name:  "last two within six days",
			input: "(-6d:)[-2:]",
			want: Rule{
				Window: Window{Start: Finite(-6 * day), End: PosInf},
				Index:  IndexRange{Start: At(-2)},
			},
		},
		{
			name:  "first ten older than a month",
			input: "(:-1M)[:10]",
			want: Rule{
				Window: Window{Start: NegInf, End: Finite(-30 * day)},
				Index:  IndexRange{End: At(10)},
			},
		},
		{
			name:  "year unit",
			input: "(-1Y:)[:]",
			want:  Rule{Window: Window{Start: Finite(-360 * day), End: PosInf}},
		},
		{
			name:  "upper case day",
			input: "(-2D:-1d)[1:3]",
			want: Rule{
				Window: Window{Start: Finite(-2 * day), End: Finite(-day)},
				Index:  IndexRange{Start: At(1), End: At(3)},
			},
		},
		{
			name:  "mixed terms",
			input: "(-1h/-30m/-15s:)[+1:-1]",
			want: Rule{
				Window: Window{Start: Finite(-(time.Hour + 30*time.Minute + 15*time.Second)), End: PosInf},
				Index:  IndexRange{Start: At(1), End: At(-1)},
			},
		},
		{
			name:  "repeated unit accumulates",
			input: "(5h/2h:)[:]",
			want:  Rule{Window: Window{Start: Finite(7 * time.Hour), End: PosInf}},
		},
		{
			name:  "zero bound",
			input: "(0s:0s)[0:0]",
			want: Rule{
				Window: Window{Start: Finite(0), End: Finite(0)},
				Index:  IndexRange{Start: At(0), End: At(0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input  string
		reason errs.Reason
	}{
		{"", errs.ReasonMalformed},
		{"(", errs.ReasonMalformed},
		{"]", errs.ReasonMalformed},
		{":)[:]", errs.ReasonMalformed},
		{"(:)[:", errs.ReasonMalformed},
		{"(:][:]", errs.ReasonMalformed},
		{"(:)[:](:)[:]", errs.ReasonMalformed},
		{"(::)[:]", errs.ReasonMalformed},
		{"()[:]", errs.ReasonMalformed},
		{"(:)[]", errs.ReasonMalformed},
		{"(:)[1:2:3]", errs.ReasonMalformed},
		{"(1h/:)[:]", errs.ReasonMalformed},
		{"(1x:)[:]", errs.ReasonUnknownUnit},
		{"(:-3w)[:]", errs.ReasonUnknownUnit},
		{"(1h/2q:)[:]", errs.ReasonUnknownUnit},
		{"(1x/a:)[:]", errs.ReasonInvalidInteger},
		{"(1x/2h:)[:]", errs.ReasonUnknownUnit},
		{"(1x/:)[:]", errs.ReasonMalformed},
		{"(a:)[:]", errs.ReasonInvalidInteger},
		{"(h:)[:]", errs.ReasonInvalidInteger},
		{"(1.5h:)[:]", errs.ReasonInvalidInteger},
		{"(:)[a:]", errs.ReasonInvalidInteger},
		{"(:)[:1.0]", errs.ReasonInvalidInteger},
		{"(:)[:99999999999999999999]", errs.ReasonInvalidInteger},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() { _, err = Parse(tt.input) })
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrParse)
			assert.ErrorIs(t, err, &errs.Error{Kind: errs.KindParse, Reason: tt.reason})
		})
	}
}

func TestParse_UnitAccumulation(t *testing.T) {
	a, err := Parse("(1h/30m:)[:]")
	require.NoError(t, err)
	b, err := Parse("(90m:)[:]")
	require.NoError(t, err)

	assert.Equal(t, a.Window.Start, b.Window.Start)
	assert.Equal(t, 90*time.Minute, a.Window.Start.Duration())

	twice, err := Parse("(1h/1h:)[:]")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, twice.Window.Start.Duration())
}

func TestParse_Saturates(t *testing.T) {
	r, err := Parse("(-9999999999Y:9999999999Y)[:]")
	require.NoError(t, err)
	assert.Equal(t, NegInf, r.Window.Start)
	assert.Equal(t, PosInf, r.Window.End)

	r, err = Parse("(:9223372036854775807s/1s)[:]")
	require.NoError(t, err)
	assert.Equal(t, PosInf, r.Window.End)
}

func TestRule_StringRoundTrip(t *testing.T) {
	for _, in := range []string{"(:)[:]", "(-6d:)[-2:]", "(:-90m)[:10]", "(-1h/-30m/-15s:1s)[3:-1]"} {
		r := MustParse(in)
		back, err := Parse(r.String())
		require.NoError(t, err, r.String())
		assert.Equal(t, r, back)
	}

	assert.Equal(t, "(-144h:)[-2:]", MustParse("(-6d:)[-2:]").String())
	assert.Equal(t, "(:-1h/-30m)[:]", MustParse("(:-90m)[:]").String())
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("nope") })
}

func TestWindow_Contains(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	w := Window{Start: Finite(-2 * day), End: Finite(-day)}

	assert.True(t, w.Contains(now, now.Add(-36*time.Hour)))
	assert.False(t, w.Contains(now, now.Add(-2*day)), "start is exclusive")
	assert.False(t, w.Contains(now, now.Add(-day)), "end is exclusive")
	assert.False(t, w.Contains(now, now))

	all := Window{Start: NegInf, End: PosInf}
	assert.True(t, all.Contains(now, time.Time{}))
	assert.True(t, all.Contains(now, now.Add(1000*day)))

	inverted := Window{Start: Finite(-day), End: Finite(-2 * day)}
	assert.False(t, inverted.Contains(now, now.Add(-36*time.Hour)))

	never := Window{Start: PosInf, End: NegInf}
	assert.False(t, never.Contains(now, now))
}
