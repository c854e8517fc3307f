package xctrace

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
)

// Metadata is the best-effort trace description pulled from the table of
// contents. Every field may be empty.
type Metadata struct {
	Device    string
	StartDate string
}

// FetchMetadata exports and parses the trace TOC. Failures degrade to empty
// metadata since the analysis does not depend on it.
func FetchMetadata(ctx context.Context, runner Runner, tracePath string) Metadata {
	data, err := runner.TOC(ctx, tracePath)
	if err != nil {
		return Metadata{}
	}
	return parseTOC(data)
}

// parseTOC scans the TOC document for the run's device and start date
// elements without binding to the full document shape.
func parseTOC(data []byte) Metadata {
	var md Metadata
	dec := xml.NewDecoder(bytes.NewReader(data))
	var current string
	for {
		tok, err := dec.Token()
		if err == io.EOF || err != nil {
			return md
		}
		switch t := tok.(type) {
		case xml.StartElement:
			current = t.Name.Local
			if current == "device" {
				for _, attr := range t.Attr {
					if attr.Name.Local == "name" && md.Device == "" {
						md.Device = attr.Value
					}
				}
			}
		case xml.CharData:
			if current == "start-date" && md.StartDate == "" {
				md.StartDate = string(bytes.TrimSpace(t))
			}
		case xml.EndElement:
			current = ""
		}
	}
}
