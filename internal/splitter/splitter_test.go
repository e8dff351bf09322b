package splitter

import (
	"strings"
	"testing"
)

func TestSplitShortText(t *testing.T) {
	chunks := Split("hello world", 1000, 200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "hello world" || chunks[0].Start != 0 {
		t.Errorf("unexpected chunk: %+v", chunks[0])
	}
}

func TestSplitEmptyText(t *testing.T) {
	if chunks := Split("", 1000, 200); chunks != nil {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}

func TestSplitWindowCount(t *testing.T) {
	cases := []struct {
		length, size, overlap int
	}{
		{1000, 1000, 200},
		{1001, 1000, 200},
		{1600, 1000, 200},
		{1801, 1000, 200},
		{5000, 1000, 200},
		{50, 100, 20},
		{230, 100, 20},
	}
	for _, c := range cases {
		text := strings.Repeat("a", c.length)
		chunks := Split(text, c.size, c.overlap)

		want := 1
		if c.length > c.size {
			step := c.size - c.overlap
			want = (c.length - c.overlap + step - 1) / step
		}
		if len(chunks) != want {
			t.Errorf("L=%d W=%d O=%d: got %d chunks, want %d",
				c.length, c.size, c.overlap, len(chunks), want)
		}
	}
}

func TestSplitCoversEveryRune(t *testing.T) {
	text := strings.Repeat("abcdefghij", 37) // 370 runes
	size, overlap := 100, 30
	chunks := Split(text, size, overlap)

	covered := make([]bool, len(text))
	for _, ch := range chunks {
		for i := range ch.Text { // ASCII input, byte offsets equal rune offsets
			covered[ch.Start+i] = true
		}
	}
	for i, ok := range covered {
		if !ok {
			t.Fatalf("rune %d not covered by any chunk", i)
		}
	}

	// last chunk must end exactly at the end of the text
	last := chunks[len(chunks)-1]
	if last.Start+len([]rune(last.Text)) != len(text) {
		t.Errorf("trailing content dropped: last chunk ends at %d, text has %d runes",
			last.Start+len([]rune(last.Text)), len(text))
	}
}

func TestSplitOverlap(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks := Split(text, 100, 20)
	for i := 1; i < len(chunks); i++ {
		if got := chunks[i].Start - chunks[i-1].Start; got != 80 {
			t.Errorf("chunk %d starts %d runes after previous, want 80", i, got)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet ", 100)
	a := Split(text, 1000, 200)
	b := Split(text, 1000, 200)
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
