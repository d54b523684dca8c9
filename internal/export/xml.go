// Package export renders a user's tasks as an XML document.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Dan9191/task-tracker/internal/models"
	"github.com/beevik/etree"
)

// ContentType is the media type of TasksXML output
const ContentType = "application/xml; charset=utf-8"

// TasksXML builds the export document for ownerID. Tasks keep the order they are given in.
func TasksXML(ownerID int64, tasks []models.Task) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("tasks")
	root.CreateAttr("owner", strconv.FormatInt(ownerID, 10))
	root.CreateAttr("count", strconv.Itoa(len(tasks)))

	for _, t := range tasks {
		el := root.CreateElement("task")
		el.CreateAttr("id", strconv.FormatInt(t.ID, 10))
		el.CreateAttr("completed", strconv.FormatBool(t.Completed))
		el.CreateElement("title").SetText(t.Title)
		if t.Description != nil {
			el.CreateElement("description").SetText(*t.Description)
		}
		el.CreateElement("created_at").SetText(t.CreatedAt.UTC().Format(time.RFC3339))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render tasks XML: %w", err)
	}
	return out, nil
}
