package preview

// DemoID names one preview fragment in previews/<id>.html.
type DemoID string

const (
	DemoGradientText       DemoID = "gradient-text"
	DemoDecryptedText      DemoID = "decrypted-text"
	DemoSplitText          DemoID = "split-text"
	DemoTypewriterText     DemoID = "typewriter-text"
	DemoShinyText          DemoID = "shiny-text"
	DemoBlurText           DemoID = "blur-text"
	DemoClickSpark         DemoID = "click-spark"
	DemoFadeContent        DemoID = "fade-content"
	DemoMagnet             DemoID = "magnet"
	DemoAnimatedBackground DemoID = "animated-background"
	DemoGridVortex         DemoID = "grid-vortex"
	DemoOrbitalFluid       DemoID = "orbital-fluid"
	DemoAurora             DemoID = "aurora"
	DemoShimmerButton      DemoID = "shimmer-button"
	DemoMagneticButton     DemoID = "magnetic-button"
	DemoRippleButton       DemoID = "ripple-button"
	DemoTiltCard           DemoID = "tilt-card"
	DemoSpotlightCard      DemoID = "spotlight-card"
	DemoFlipCard           DemoID = "flip-card"

	// DemoPlaceholder is rendered for every slug without a binding.
	DemoPlaceholder DemoID = "placeholder"
)

// Binding maps a slug to the demo it previews. Alias bindings keep old
// URLs working after a slug was renamed.
type Binding struct {
	Slug  string
	Demo  DemoID
	Alias bool
}

// bindings is the full slug table. Every canonical slug appears once;
// aliases point at the same DemoID as their canonical slug.
var bindings = []Binding{
	{Slug: "gradient-text", Demo: DemoGradientText},
	{Slug: "decrypted-text", Demo: DemoDecryptedText},
	{Slug: "split-text", Demo: DemoSplitText},
	{Slug: "typewriter-text", Demo: DemoTypewriterText},
	{Slug: "shiny-text", Demo: DemoShinyText},
	{Slug: "blur-text", Demo: DemoBlurText},
	{Slug: "click-spark", Demo: DemoClickSpark},
	{Slug: "fade-content", Demo: DemoFadeContent},
	{Slug: "magnet", Demo: DemoMagnet},
	{Slug: "animated-background", Demo: DemoAnimatedBackground},
	{Slug: "grid-vortex", Demo: DemoGridVortex},
	{Slug: "orbital-fluid", Demo: DemoOrbitalFluid},
	{Slug: "aurora", Demo: DemoAurora},
	{Slug: "shimmer-button", Demo: DemoShimmerButton},
	{Slug: "magnetic-button", Demo: DemoMagneticButton},
	{Slug: "ripple-button", Demo: DemoRippleButton},
	{Slug: "tilt-card", Demo: DemoTiltCard},
	{Slug: "spotlight-card", Demo: DemoSpotlightCard},
	{Slug: "flip-card", Demo: DemoFlipCard},

	{Slug: "decrypted-text-demo", Demo: DemoDecryptedText, Alias: true},
	{Slug: "gradient-text-demo", Demo: DemoGradientText, Alias: true},
	{Slug: "animated-bg", Demo: DemoAnimatedBackground, Alias: true},
	{Slug: "aurora-background", Demo: DemoAurora, Alias: true},
}

// Bindings returns a copy of the slug table.
func Bindings() []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)
	return out
}

// IsAlias reports whether slug is a legacy alias in the binding table.
func IsAlias(slug string) bool {
	for _, b := range bindings {
		if b.Slug == slug {
			return b.Alias
		}
	}
	return false
}
