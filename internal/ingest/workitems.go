package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/blackwell-systems/autoscout/internal/logging"
	"github.com/blackwell-systems/autoscout/internal/workitem"
)

// Input formats.
const (
	FormatTrello    = "trello"
	FormatFlat      = "flat"
	FormatDirectory = "directory"
)

// UnknownList is the category of a card whose list is not in the export.
const UnknownList = "Unknown"

// trelloExport is the subset of a Trello board export that autoscout reads.
type trelloExport struct {
	Lists []trelloList      `json:"lists"`
	Cards []json.RawMessage `json:"cards"`
}

type trelloList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type trelloLabel struct {
	Name string `json:"name"`
}

// LoadWorkItems reads work items from a file. The returned error is non-nil
// only when the file is unreadable or not a recognized JSON document;
// malformed records are reported in the Report instead.
func LoadWorkItems(path string, logger *zap.Logger) ([]workitem.Source, Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Report{Source: path}, fmt.Errorf("reading work items: %w", err)
	}
	return ParseWorkItems(data, path, logger)
}

// ParseWorkItems decodes a Trello export (an object with a cards array) or a
// flat array of work items. source names the input in errors and logs.
func ParseWorkItems(data []byte, source string, logger *zap.Logger) ([]workitem.Source, Report, error) {
	logger = logging.OrNop(logger)
	report := Report{Source: source}

	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		var export trelloExport
		if err := json.Unmarshal(trimmed, &export); err != nil {
			return nil, report, fmt.Errorf("decoding %s: %w", source, err)
		}
		report.Format = FormatTrello
		items := parseTrello(export, &report, logger)
		return items, report, nil

	case len(trimmed) > 0 && trimmed[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, report, fmt.Errorf("decoding %s: %w", source, err)
		}
		report.Format = FormatFlat
		items := parseFlatItems(raw, &report, logger)
		return items, report, nil

	default:
		return nil, report, fmt.Errorf("decoding %s: %w", source, ErrUnknownFormat)
	}
}

func parseTrello(export trelloExport, report *Report, logger *zap.Logger) []workitem.Source {
	lists := make(map[string]string, len(export.Lists))
	for _, l := range export.Lists {
		lists[l.ID] = l.Name
	}

	items := make([]workitem.Source, 0, len(export.Cards))
	report.Total = len(export.Cards)
	for i, raw := range export.Cards {
		card, err := decodeRecord(raw, i, report, logger)
		if err != nil {
			report.skip(logger, i, "", err)
			continue
		}
		id, idErr := card.identity("id", ErrMissingID)
		if card.boolean("closed") {
			report.Filtered++
			continue
		}
		if idErr != nil {
			report.skip(logger, i, "", idErr)
			continue
		}

		category, ok := lists[card.str("idList")]
		if !ok {
			category = UnknownList
		}
		cardLabels, _ := field[[]trelloLabel](card, "labels")
		var labels []string
		for _, l := range cardLabels {
			if l.Name != "" {
				labels = append(labels, l.Name)
			}
		}
		items = append(items, workitem.Source{
			ID:          id,
			Title:       card.str("name"),
			Description: card.str("desc"),
			Category:    category,
			Labels:      labels,
			Due:         card.str("due"),
			Members:     card.strs("idMembers"),
		})
	}
	report.Loaded = len(items)
	return items
}

func parseFlatItems(raw []json.RawMessage, report *Report, logger *zap.Logger) []workitem.Source {
	items := make([]workitem.Source, 0, len(raw))
	report.Total = len(raw)
	for i, r := range raw {
		rec, err := decodeRecord(r, i, report, logger)
		if err != nil {
			report.skip(logger, i, "", err)
			continue
		}
		id, err := rec.identity("id", ErrMissingID)
		if err != nil {
			report.skip(logger, i, "", err)
			continue
		}
		items = append(items, workitem.Source{
			ID:          id,
			Title:       rec.str("title"),
			Description: rec.str("description"),
			Category:    rec.str("category"),
			Labels:      rec.strs("labels"),
			Due:         rec.str("due"),
			Members:     rec.strs("members"),
		})
	}
	report.Loaded = len(items)
	return items
}

