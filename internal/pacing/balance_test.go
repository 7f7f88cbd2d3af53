package pacing

import (
	"reflect"
	"strings"
	"testing"
)

func TestSelectSplitPicksNearestTarget(t *testing.T) {
	text := "aaaa bbbb cccc dddd"
	breaks := []Break{
		{Pos: 5, Kind: BreakConnector},
		{Pos: 10, Kind: BreakConnector},
		{Pos: 15, Kind: BreakConnector},
	}

	left, right, ok := SelectSplit(breaks, text, 0.5, 4)
	if !ok {
		t.Fatalf("ok = false, want true")
	}
	if left != "aaaa bbbb" || right != "cccc dddd" {
		t.Fatalf("split = (%q, %q), want (aaaa bbbb, cccc dddd)", left, right)
	}
}

func TestSelectSplitRejectsShortHalves(t *testing.T) {
	text := "aaaa bbbb"
	breaks := []Break{{Pos: 5, Kind: BreakConnector}}
	if _, _, ok := SelectSplit(breaks, text, 0.5, 20); ok {
		t.Fatalf("ok = true, want false for halves under minPartLen")
	}
}

func TestSelectSplitNoBreaks(t *testing.T) {
	if _, _, ok := SelectSplit(nil, "some text", 0.5, 1); ok {
		t.Fatalf("ok = true, want false without candidates")
	}
}

func TestMergeShortFragments(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		maxParts  int
		maxLength int
		want      []string
	}{
		{
			name:      "within budget untouched",
			fragments: []string{"один", "два"},
			maxParts:  3,
			maxLength: 150,
			want:      []string{"один", "два"},
		},
		{
			name:      "greedy grouping with remainder in final group",
			fragments: []string{"aaaa", "bbbb", "cccc", "dddd", "eeee"},
			maxParts:  3,
			maxLength: 8,
			want:      []string{"aaaa bbbb", "cccc dddd", "eeee"},
		},
		{
			name:      "short tail folds into previous group",
			fragments: []string{"aaaa", "bbbb", "cc"},
			maxParts:  2,
			maxLength: 8,
			want:      []string{"aaaa bbbb cc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeShortFragments(tt.fragments, tt.maxParts, tt.maxLength)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("MergeShortFragments = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForceSplitLongAtComma(t *testing.T) {
	got := ForceSplitLong("alpha beta gamma, delta epsilon zeta", 20)
	want := []string{"alpha beta gamma,", "delta epsilon zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ForceSplitLong = %q, want %q", got, want)
	}
}

func TestForceSplitLongInterjectionRedo(t *testing.T) {
	got := ForceSplitLong("Ну, вот теперь все понятно стало", 10)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %q", len(got), got)
	}
	if got[0] != "Ну, вот" {
		t.Fatalf("first part = %q, want %q", got[0], "Ну, вот")
	}
	if got[1] != "теперь все понятно стало" {
		t.Fatalf("second part = %q", got[1])
	}
}

func TestForceSplitLongWordMidpointFallback(t *testing.T) {
	got := ForceSplitLong("aaaaa bbbbb ccccc ddddd", 10)
	want := []string{"aaaaa bbbbb", "ccccc ddddd"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ForceSplitLong = %q, want %q", got, want)
	}
}

func TestForceSplitLongShortPassthrough(t *testing.T) {
	got := ForceSplitLong("короткая фраза", 150)
	if len(got) != 1 || got[0] != "короткая фраза" {
		t.Fatalf("ForceSplitLong = %q, want the input untouched", got)
	}
}

func TestForceSplitLongPreservesWords(t *testing.T) {
	fragment := "Мы обсуждали планы на отпуск, потом заказали еще кофе и долго смотрели на реку"
	parts := ForceSplitLong(fragment, 30)
	got := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	want := strings.Join(strings.Fields(fragment), " ")
	if got != want {
		t.Fatalf("reassembled = %q, want %q", got, want)
	}
}
