// package form_api serves the Datastar endpoints behind the download form.
package form_api

import (
	"log/slog"

	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/framefetch/cmd/web/templates/components"
	"thirdcoast.systems/framefetch/internal/downloader"
)

// formSignals are the non-local signals the form sends with every @post.
type formSignals struct {
	FormID     string `json:"formID"`
	URL        string `json:"url"`
	Quality    string `json:"quality"`
	FormatType string `json:"formatType"`
}

// apply copies the browser's view of the form into the server-side form.
// The URL is only reset when it actually changed so loaded info survives.
func (s formSignals) apply(form *downloader.Form) {
	if s.URL != form.Snapshot().URL {
		form.SetURL(s.URL)
	}
	form.SetQuality(s.Quality)
	form.SetFormat(s.FormatType)
}

const (
	toastContainerID = "toast-container"
	formErrorID      = "form-error"
	videoInfoID      = "video-info"
	qualityOptionsID = "quality-options"
)

func toast(sse *datastar.ServerSentEventGenerator, kind components.ToastKind, msg string) {
	if err := sse.PatchElementTempl(
		components.Toast(kind, msg),
		datastar.WithSelectorID(toastContainerID),
		datastar.WithModeAppend(),
	); err != nil {
		slog.Warn("failed to send toast", "error", err)
	}
}

// patchForm re-renders the parts of the form that depend on the loaded info.
func patchForm(sse *datastar.ServerSentEventGenerator, st downloader.State) error {
	if err := sse.PatchElementTempl(
		components.FormError(st.ErrorMessage()),
		datastar.WithSelectorID(formErrorID),
		datastar.WithModeReplace(),
	); err != nil {
		return err
	}
	if err := sse.PatchElementTempl(
		components.QualityPicker(downloader.QualityOptions(st.Info), st.Quality),
		datastar.WithSelectorID(qualityOptionsID),
		datastar.WithModeReplace(),
	); err != nil {
		return err
	}
	return sse.PatchElementTempl(
		components.VideoInfoSlot(st),
		datastar.WithSelectorID(videoInfoID),
		datastar.WithModeReplace(),
	)
}
