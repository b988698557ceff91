// Package axes holds the fixed catalog of contrast axes a generation
// request can select. The catalog is immutable configuration loaded at
// init; it is never written afterwards and needs no synchronization.
package axes

// Axis is a named contrast dimension with exactly two mutually
// exclusive option labels
type Axis struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Options [2]string `json:"options"`
}

var catalog = []Axis{
	{ID: "length", Name: "Length", Options: [2]string{"shorter prompt", "longer prompt"}},
	{ID: "vibes", Name: "Vibes", Options: [2]string{"mostly vibes / feelings", "mostly concrete details"}},
	{ID: "tone", Name: "Tone", Options: [2]string{"serious", "playful"}},
	{ID: "humor", Name: "Humor", Options: [2]string{"funny", "serious/not funny"}},
	{ID: "creepy", Name: "Creep Factor", Options: [2]string{"creepy", "not creepy"}},
	{ID: "realism", Name: "Realism", Options: [2]string{"realistic/documentary", "stylized/surreal"}},
	{ID: "camera_stability", Name: "Camera", Options: [2]string{"handheld", "tripod-locked"}},
	{ID: "camera_motion", Name: "Camera Motion", Options: [2]string{"static frame", "subtle push/pan"}},
	{ID: "framing", Name: "Framing", Options: [2]string{"wide composition", "tight close-ups"}},
	{ID: "lighting", Name: "Lighting", Options: [2]string{"flat 5600K daylight", "dramatic/colored gels"}},
	{ID: "color_palette", Name: "Color Palette", Options: [2]string{"natural/muted", "neon/high-saturation"}},
	{ID: "audio_focus", Name: "Audio Focus", Options: [2]string{"music-forward", "ambience/sfx-forward"}},
	{ID: "dialogue", Name: "Dialogue", Options: [2]string{"spoken lines", "silent"}},
	{ID: "overlays", Name: "Overlays", Options: [2]string{"with text overlays", "no text overlays"}},
	{ID: "looping", Name: "Looping", Options: [2]string{"seamless loop", "no looping needed"}},
	{ID: "beats", Name: "Beat Structure", Options: [2]string{"2-beat", "3-beat"}},
	{ID: "effect_density", Name: "Effect Density", Options: [2]string{"one signature effect", "many micro-effects"}},
	{ID: "prop_strategy", Name: "Prop Strategy", Options: [2]string{"single prop", "multiple props"}},
	{ID: "setting_scope", Name: "Setting Scope", Options: [2]string{"neutral studio", "real location"}},
	{ID: "transition_style", Name: "Transitions", Options: [2]string{"hard cuts only", "in-camera/FX transitions"}},
	{ID: "tempo", Name: "Tempo", Options: [2]string{"fast tempo (>120 BPM)", "chill tempo (<100 BPM)"}},
	{ID: "cta_timing", Name: "CTA Timing", Options: [2]string{"early CTA (<5s)", "late CTA (8-10s)"}},
	{ID: "hook_type", Name: "Hook Type", Options: [2]string{"visual action hook", "title card hook"}},
	{ID: "subject_count", Name: "Subject Count", Options: [2]string{"single subject", "couple/group subjects"}},
	{ID: "focus", Name: "Creative Focus", Options: [2]string{"product-centered", "lifestyle-centered"}},
}

var byID = func() map[string]Axis {
	m := make(map[string]Axis, len(catalog))
	for _, axis := range catalog {
		m[axis.ID] = axis
	}
	return m
}()

// looks up an axis by id
func Lookup(id string) (Axis, bool) {
	axis, ok := byID[id]
	return axis, ok
}

// returns all axes in catalog order
func All() []Axis {
	out := make([]Axis, len(catalog))
	copy(out, catalog)
	return out
}
