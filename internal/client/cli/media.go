package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aleksmelnik/mediavault/internal/client/media"
	"github.com/aleksmelnik/mediavault/internal/common"
)

// SetTab switches the active tab and re-fetches it.
func (a *App) SetTab(ctx context.Context, name string) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}
	tab, err := media.ParseTab(name)
	if err != nil {
		printlnFn("Tabs: photos, videos, audio, favorites, trash")
		return err
	}
	if err := a.controller.SetTab(ctx, tab); err != nil {
		printAPIError(err)
		return err
	}
	return a.List(ctx)
}

// Search sets the search text and re-renders the derived view. It never
// re-fetches; an empty query shows the full tab set again.
func (a *App) Search(ctx context.Context, query string) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}
	a.controller.SetSearchQuery(query)
	return a.List(ctx)
}

// List renders the derived view of the active tab.
func (a *App) List(ctx context.Context) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}

	items := a.controller.View()
	if len(items) == 0 {
		printlnFn("Nothing here.")
		return nil
	}
	for _, item := range items {
		flags := ""
		if item.IsFavorite {
			flags += " ★"
		}
		if a.controller.IsOperationPending(item.ID) {
			flags += " (busy)"
		}
		printlnFn(fmt.Sprintf("%s  %-5s  %-30s  %s%s",
			item.ID, item.Type, item.Title, formatBytes(item.SizeBytes), flags))
	}
	return nil
}

// Upload validates and uploads a local file. The title defaults to the file
// name when omitted.
func (a *App) Upload(ctx context.Context, path, title string) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		printlnFn("Cannot open file: " + err.Error())
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))

	item, err := a.controller.Upload(ctx, f, filepath.Base(path), title, contentType, info.Size())
	if err != nil {
		switch {
		case errors.Is(err, common.ErrFileTooLarge):
			printlnFn("File too large. Maximum size is 100MB.")
		case errors.Is(err, common.ErrUnsupportedFileType):
			printlnFn("Unsupported file type. Only images, video, and audio can be uploaded.")
		default:
			printAPIError(err)
		}
		return err
	}
	if item != nil {
		printlnFn(fmt.Sprintf("Uploaded %s (%s)", item.Title, formatBytes(item.SizeBytes)))
	}
	return nil
}

// ToggleFavorite flips the favorite flag on the identified item.
func (a *App) ToggleFavorite(ctx context.Context, id string) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}
	if err := a.controller.ToggleFavorite(ctx, id); err != nil {
		a.printMutationError(err)
		return err
	}
	return nil
}

// ToggleTrash moves the identified item into or out of the trash.
func (a *App) ToggleTrash(ctx context.Context, id string) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}
	if err := a.controller.ToggleTrash(ctx, id); err != nil {
		a.printMutationError(err)
		return err
	}
	return nil
}

// Delete permanently removes the identified item after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	if !a.gate.CanEnter(ctx) {
		return nil
	}
	answer, err := getSimpleText(a.reader, "Permanently delete? This cannot be undone. (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}
	if err := a.controller.PermanentlyDelete(ctx, id); err != nil {
		a.printMutationError(err)
		return err
	}
	printlnFn("Deleted.")
	return nil
}

func (a *App) printMutationError(err error) {
	if errors.Is(err, common.ErrNotFound) {
		printlnFn("No such item in the current view. Run 'list' to see ids.")
		return
	}
	printAPIError(err)
}
