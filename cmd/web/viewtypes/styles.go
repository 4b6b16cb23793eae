package viewtypes

// ============================================================================
// SHARED CSS CLASS CONSTANTS
// Reusable class strings used across multiple template files.
// Use these with class={ VarName } or class={ VarName + " extra-classes" }.
// ============================================================================

// GlassCard is the frosted panel used by the download card and info card.
var GlassCard = "glass-card rounded-3xl p-8 mb-8"

// SectionLabel is the standard label style for form sections.
var SectionLabel = "block text-white font-semibold mb-4 text-lg"

// InputClass is the URL input styling.
var InputClass = "url-input w-full rounded-2xl px-4 py-4 pl-12"

// PrimaryButton is the gradient call-to-action button.
var PrimaryButton = "btn-primary rounded-2xl font-bold text-lg px-10 py-5"

// GhostButton is the outlined secondary button.
var GhostButton = "btn-ghost rounded-2xl font-bold text-lg px-10 py-5"

// NavLink is a header navigation entry.
var NavLink = "nav-link px-6 py-3 rounded-3xl font-semibold"

// ChoiceButton returns the classes of a format/quality choice, highlighted
// when selected.
func ChoiceButton(selected bool) string {
	if selected {
		return "choice is-selected rounded-3xl py-5 px-6"
	}
	return "choice rounded-3xl py-5 px-6"
}
