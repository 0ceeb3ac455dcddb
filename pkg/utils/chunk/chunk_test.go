package chunk_test

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/modcase/pkg/utils/chunk"
)

func TestText(t *testing.T) {
	t.Run("empty text yields no chunks", func(t *testing.T) {
		gt.Array(t, chunk.Text("", 10)).Length(0)
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := chunk.Text("warned for spam", 100)
		gt.Array(t, chunks).Length(1)
		gt.Value(t, chunks[0]).Equal("warned for spam")
	})

	t.Run("prefers line boundaries", func(t *testing.T) {
		chunks := chunk.Text("aaaa\nbbbb\ncccc", 10)
		gt.Array(t, chunks).Length(2)
		gt.Value(t, chunks[0]).Equal("aaaa\nbbbb\n")
		gt.Value(t, chunks[1]).Equal("cccc")
	})

	t.Run("hard splits a long line", func(t *testing.T) {
		chunks := chunk.Text(strings.Repeat("x", 25), 10)
		gt.Array(t, chunks).Length(3)
		gt.Value(t, chunks[0]).Equal(strings.Repeat("x", 10))
		gt.Value(t, chunks[2]).Equal(strings.Repeat("x", 5))
	})

	t.Run("does not cut inside a multi-byte rune", func(t *testing.T) {
		text := strings.Repeat("ü", 6) // 12 bytes
		chunks := chunk.Text(text, 5)
		for _, c := range chunks {
			gt.Bool(t, utf8.ValidString(c)).True()
			gt.Bool(t, len(c) <= 5).True()
		}
		gt.Value(t, strings.Join(chunks, "")).Equal(text)
	})

	t.Run("3000 byte note at 1014 bytes yields 3 chunks", func(t *testing.T) {
		text := strings.Repeat("n", 3000)
		chunks := chunk.Text(text, 1014)
		gt.Array(t, chunks).Length(3)
		gt.Value(t, strings.Join(chunks, "")).Equal(text)
	})
}

func TestText_LosslessProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []string{"a", "b", " ", "\n", "é", "日", "🙂", "```"}

	for i := 0; i < 500; i++ {
		var sb strings.Builder
		n := rng.Intn(200)
		for j := 0; j < n; j++ {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		text := sb.String()
		maxBytes := 1 + rng.Intn(40)

		chunks := chunk.Text(text, maxBytes)
		for _, c := range chunks {
			gt.Bool(t, c != "").True()
			gt.Bool(t, len(c) <= maxBytes).True()
		}
		gt.Value(t, strings.Join(chunks, "")).Equal(text)
	}
}

func TestLines(t *testing.T) {
	t.Run("empty input yields no chunks", func(t *testing.T) {
		gt.Array(t, chunk.Lines(nil, 10, "\n")).Length(0)
	})

	t.Run("packs whole lines including separators", func(t *testing.T) {
		chunks := chunk.Lines([]string{"aaa", "bbb", "ccc"}, 7, "\n")
		gt.Array(t, chunks).Length(2)
		gt.Value(t, strings.Join(chunks[0], "\n")).Equal("aaa\nbbb")
		gt.Value(t, strings.Join(chunks[1], "\n")).Equal("ccc")
	})

	t.Run("oversized line is split on its own", func(t *testing.T) {
		chunks := chunk.Lines([]string{"ok", strings.Repeat("z", 12), "fine"}, 5, "\n")
		gt.Array(t, chunks).Length(5)
		gt.Value(t, chunks[0][0]).Equal("ok")
		gt.Value(t, chunks[1][0]).Equal("zzzzz")
		gt.Value(t, chunks[3][0]).Equal("zz")
		gt.Value(t, chunks[4][0]).Equal("fine")
	})

	t.Run("never splits a line that fits", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		for i := 0; i < 200; i++ {
			maxBytes := 5 + rng.Intn(30)
			var lines []string
			for j := 0; j < 1+rng.Intn(20); j++ {
				lines = append(lines, strings.Repeat("l", rng.Intn(maxBytes+1)))
			}

			var flattened []string
			for _, c := range chunk.Lines(lines, maxBytes, "\n\n") {
				gt.Bool(t, len(strings.Join(c, "\n\n")) <= maxBytes).True()
				flattened = append(flattened, c...)
			}
			gt.Value(t, flattened).Equal(lines)
		}
	})
}

func TestJoinedLines(t *testing.T) {
	joined := chunk.JoinedLines([]string{"one", "two", "three"}, 9, ", ")
	gt.Value(t, joined).Equal([]string{"one, two", "three"})
}

func TestItems(t *testing.T) {
	t.Run("groups by count", func(t *testing.T) {
		items := make([]int, 12)
		for i := range items {
			items[i] = i + 1
		}
		pages := chunk.Items(items, 10)
		gt.Array(t, pages).Length(2)
		gt.Array(t, pages[0]).Length(10)
		gt.Value(t, pages[1]).Equal([]int{11, 12})
	})

	t.Run("empty input", func(t *testing.T) {
		gt.Array(t, chunk.Items([]string{}, 10)).Length(0)
	})
}
