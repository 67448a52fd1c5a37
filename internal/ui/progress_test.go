package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"lintel/internal/driver"
)

func TestApplyEventCountsTerminalStates(t *testing.T) {
	files := []string{"a.go", "b.cs", "c.go"}
	m := NewProgressModel("lintel", files, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.go", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" || m.finished != 0 {
		t.Fatalf("a.go = %+v finished=%d", m.items[0], m.finished)
	}
	m.applyEvent(driver.Event{File: "a.go", Stage: driver.StageAnalyze, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.cs", Stage: driver.StageAnalyze, Status: driver.StatusCached})
	m.applyEvent(driver.Event{File: "c.go", Stage: driver.StageParse, Status: driver.StatusError})
	// late events after a terminal state are ignored
	m.applyEvent(driver.Event{File: "c.go", Stage: driver.StageAnalyze, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "unknown.go", Status: driver.StatusDone})

	if m.finished != 3 || m.cached != 1 || m.failed != 1 {
		t.Fatalf("finished=%d cached=%d failed=%d", m.finished, m.cached, m.failed)
	}
	if m.items[2].status != "error" {
		t.Fatalf("c.go status = %q", m.items[2].status)
	}
	view := m.View()
	if !strings.Contains(view, "3/3 files, 1 cached, 1 failed") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestVisibleItemsWindow(t *testing.T) {
	var files []string
	for i := 0; i < 30; i++ {
		files = append(files, string(rune('a'+i%26))+".go")
	}
	m := NewProgressModel("lintel", files, nil).(*progressModel)
	if got := len(m.visibleItems()); got != maxListed {
		t.Fatalf("visible = %d", got)
	}
	m.lastTouch = 29
	items := m.visibleItems()
	if len(items) != maxListed || items[len(items)-1].path != files[29] {
		t.Fatalf("window does not end at the last touched file")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("internal/lang/golang/facade.go", 12); got != "internal/..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("日本語.go", 5); got != "日..." {
		t.Fatalf("truncate wide = %q", got)
	}
	for width := 4; width <= 20; width++ {
		got := truncate("internal/lang/csharp/facade.cs", width)
		if w := runewidth.StringWidth(got); w != width {
			t.Fatalf("truncate(%d) = %q (width %d)", width, got, w)
		}
	}
}
