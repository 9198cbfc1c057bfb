package debounce

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestDebouncer_LatestWins(t *testing.T) {
	d := New(ms(600))

	first := d.Schedule("o")
	second := d.Schedule("oc")
	third := d.Schedule("octocat")

	_, ok := d.Fire(first.Seq)
	assert.False(t, ok, "superseded ticket must not fire")
	_, ok = d.Fire(second.Seq)
	assert.False(t, ok, "superseded ticket must not fire")

	v, ok := d.Fire(third.Seq)
	require.True(t, ok)
	assert.Equal(t, "octocat", v)

	_, ok = d.Fire(third.Seq)
	assert.False(t, ok, "a ticket fires at most once")
}

func TestDebouncer_EmptyValueStillEmits(t *testing.T) {
	d := New(0)
	assert.Equal(t, DefaultInterval, d.Interval())

	d.Schedule("octo")
	tk := d.Schedule("")

	v, ok := d.Fire(tk.Seq)
	require.True(t, ok)
	assert.Equal(t, "", v)
}

func TestDebouncer_Cancel(t *testing.T) {
	d := New(ms(100))
	tk := d.Schedule("abc")
	assert.True(t, d.Pending())

	d.Cancel()
	assert.False(t, d.Pending())

	_, ok := d.Fire(tk.Seq)
	assert.False(t, ok)
}

func TestStable(t *testing.T) {
	tests := []struct {
		name   string
		inputs []Input
		want   []Emission
	}{
		{
			name:   "no input",
			inputs: nil,
			want:   nil,
		},
		{
			name: "rapid typing coalesces to final value",
			inputs: []Input{
				{At: ms(0), Value: "o"},
				{At: ms(100), Value: "oc"},
				{At: ms(250), Value: "oct"},
				{At: ms(700), Value: "octocat"},
			},
			want: []Emission{{At: ms(1300), Value: "octocat"}},
		},
		{
			name: "pause longer than interval emits intermediate value",
			inputs: []Input{
				{At: ms(0), Value: "oct"},
				{At: ms(900), Value: "octocat"},
			},
			want: []Emission{
				{At: ms(600), Value: "oct"},
				{At: ms(1500), Value: "octocat"},
			},
		},
		{
			name: "gap equal to interval settles the earlier value",
			inputs: []Input{
				{At: ms(0), Value: "a"},
				{At: ms(600), Value: "ab"},
			},
			want: []Emission{
				{At: ms(600), Value: "a"},
				{At: ms(1200), Value: "ab"},
			},
		},
		{
			name: "typing then deleting to empty emits empty",
			inputs: []Input{
				{At: ms(0), Value: "g"},
				{At: ms(80), Value: "gh"},
				{At: ms(160), Value: "g"},
				{At: ms(240), Value: ""},
			},
			want: []Emission{{At: ms(840), Value: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Stable(slices.Values(tt.inputs), ms(600)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStable_StopsEarly(t *testing.T) {
	inputs := []Input{
		{At: ms(0), Value: "a"},
		{At: ms(1000), Value: "b"},
		{At: ms(2000), Value: "c"},
	}
	var got []string
	for e := range Stable(slices.Values(inputs), ms(600)) {
		got = append(got, e.Value)
		if len(got) == 1 {
			break
		}
	}
	assert.Equal(t, []string{"a"}, got)
}

// Every burst inside the interval must collapse to its last value, no
// matter how many keystrokes it contains.
func TestStable_BurstsOnlyEmitFinalValue(t *testing.T) {
	for n := 1; n <= 20; n++ {
		inputs := make([]Input, n)
		for i := range inputs {
			inputs[i] = Input{At: ms(i * 50), Value: string(rune('a' + i))}
		}
		got := slices.Collect(Stable(slices.Values(inputs), ms(600)))
		require.Len(t, got, 1)
		assert.Equal(t, inputs[n-1].Value, got[0].Value)
	}
}
