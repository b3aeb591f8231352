package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/will-it-rain/internal/domain"
	"github.com/couchcryptid/will-it-rain/internal/pipeline"
)

func printText(w io.Writer, res pipeline.Result) {
	for _, r := range res.Reports {
		fmt.Fprintf(w, "%s (%s): %s\n", placeName(r), r.Date, verdict(r))
		fmt.Fprintf(w, "  %s, %.1f to %.1f C, predictability %d%%\n", r.State, r.MinTemp, r.MaxTemp, r.Predictability)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "%s: skipped, %s\n", s.Location.Title, s.Reason)
	}
}

func printJSON(w io.Writer, res pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func placeName(r domain.RainReport) string {
	if r.Parent == "" {
		return r.Title
	}
	return r.Title + ", " + r.Parent
}

func verdict(r domain.RainReport) string {
	switch {
	case r.Rain:
		return "yes, it will rain today"
	case r.Precipitation:
		return "no rain, but expect " + r.State
	default:
		return "no, it will not rain today"
	}
}
