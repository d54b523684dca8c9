package export

import (
	"testing"
	"time"

	"github.com/Dan9191/task-tracker/internal/models"
	"github.com/beevik/etree"
)

func TestTasksXML(t *testing.T) {
	desc := "2 litres & cold <fresh>"
	created := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{ID: 2, Title: "Buy milk", Description: &desc, Completed: true, CreatedAt: created},
		{ID: 1, Title: "Walk dog", CreatedAt: created.Add(-time.Hour)},
	}

	out, err := TasksXML(42, tasks)
	if err != nil {
		t.Fatalf("TasksXML: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(out); err != nil {
		t.Fatalf("output is not valid XML: %v\n%s", err, out)
	}
	root := doc.SelectElement("tasks")
	if root == nil {
		t.Fatalf("missing <tasks> root:\n%s", out)
	}
	if root.SelectAttrValue("owner", "") != "42" || root.SelectAttrValue("count", "") != "2" {
		t.Fatalf("unexpected root attrs: %v", root.Attr)
	}

	elems := doc.FindElements("//tasks/task")
	if len(elems) != 2 {
		t.Fatalf("got %d task elements, want 2", len(elems))
	}
	first := elems[0]
	if first.SelectAttrValue("id", "") != "2" || first.SelectAttrValue("completed", "") != "true" {
		t.Fatalf("unexpected first task attrs: %v", first.Attr)
	}
	if got := first.FindElement("./description").Text(); got != desc {
		t.Fatalf("description = %q, want %q", got, desc)
	}
	if got := first.FindElement("./created_at").Text(); got != "2026-10-16T10:00:00Z" {
		t.Fatalf("created_at = %q", got)
	}
	if elems[1].FindElement("./description") != nil {
		t.Fatal("expected no description element for nil description")
	}
}

func TestTasksXMLEmpty(t *testing.T) {
	out, err := TasksXML(1, nil)
	if err != nil {
		t.Fatalf("TasksXML: %v", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(out); err != nil {
		t.Fatalf("invalid XML: %v", err)
	}
	if doc.SelectElement("tasks").SelectAttrValue("count", "") != "0" {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
