package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/folio/pkg/annotate"
	"github.com/aretw0/folio/pkg/core"
)

var (
	annotateNote       string
	annotateType       string
	annotateColor      string
	annotateOccurrence int
	annotateTags       []string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <text>",
	Short: "Highlight or underline a passage of a note",
	Long: `Annotate selects the given text in a note and applies a highlight or underline.
Markdown notes are selected in their source (use --occurrence to pick a later match);
PDF notes are selected on their current page. Tags can be attached with --tag.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ws, err := openWorkspace(ctx)
		if err != nil {
			return err
		}
		defer ws.Close()

		note, err := resolveNote(ws.Store, annotateNote)
		if err != nil {
			return err
		}

		t := core.AnnotationType(annotateType)
		color := annotateColor
		if color == "" && len(core.Palette[t]) > 0 {
			color = core.Palette[t][0]
		}

		engine := newEngine(ws.Store, note, note.IsPDF)
		defer engine.Close()

		if err := selectText(engine, note, args[0], annotateOccurrence); err != nil {
			return err
		}
		if c, ok := engine.Popup().Capture(); ok && !c.Exact {
			slog.Warn("text not found on the page; offsets are approximate", "text", c.Text)
		}

		before := annotationIDs(note)
		if err := engine.Popup().Apply(ctx, t, color); err != nil {
			return err
		}

		after, _ := ws.Store.Note(note.ID)
		var created core.Annotation
		for _, a := range after.Annotations {
			if !before[a.ID] {
				created = a
			}
		}
		if created.ID == "" {
			return fmt.Errorf("annotation was not created")
		}

		if len(annotateTags) > 0 {
			if err := addTags(ctx, engine, created.ID, annotateTags); err != nil {
				return err
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), created.ID)
		return nil
	},
}

// selectText opens the create popup over the occurrence-th match of text.
func selectText(engine *annotate.Engine, note core.Note, text string, occurrence int) error {
	if note.IsPDF {
		if !engine.SelectInPreview(annotate.PreviewSelection{Text: text}) {
			return fmt.Errorf("nothing to select")
		}
		return nil
	}

	start, end, ok := findOccurrence(note.Content, text, occurrence)
	if !ok {
		return fmt.Errorf("text %q (occurrence %d) not found in note %s", text, occurrence, note.ID)
	}
	sel := annotate.EditorSelection{Value: note.Content, Start: start, End: end}
	if !engine.SelectInEditor(sel) {
		return fmt.Errorf("nothing to select")
	}
	return nil
}

// addTags opens the edit popup on annotationID and submits each tag.
func addTags(ctx context.Context, engine *annotate.Engine, annotationID string, tags []string) error {
	engine.SetPreview(true)
	if !engine.Click(annotationID, annotate.Point{}) {
		return fmt.Errorf("annotation not found: %s", annotationID)
	}
	popup := engine.Popup()
	for _, tag := range tags {
		popup.SetInput(tag)
		if err := popup.SubmitTag(ctx); err != nil {
			return err
		}
	}
	return nil
}

func annotationIDs(n core.Note) map[string]bool {
	ids := make(map[string]bool, len(n.Annotations))
	for _, a := range n.Annotations {
		ids[a.ID] = true
	}
	return ids
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.Flags().StringVar(&annotateNote, "note", "", "Note id (defaults to the active note)")
	annotateCmd.Flags().StringVarP(&annotateType, "type", "t", string(core.Highlight), "highlight or underline")
	annotateCmd.Flags().StringVarP(&annotateColor, "color", "c", "", "Palette color (defaults to the first color of the type)")
	annotateCmd.Flags().IntVar(&annotateOccurrence, "occurrence", 1, "Which match of the text to select (markdown notes)")
	annotateCmd.Flags().StringSliceVar(&annotateTags, "tag", nil, "Tag to attach (repeatable)")
}
