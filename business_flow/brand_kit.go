package businessflow

import (
	"fmt"
	"strings"

	"github.com/amirphl/reachbee/app/dto"
)

const (
	defaultPersonality = "Professional"
	logoFallbackURL    = "https://via.placeholder.com/400x200?text=Logo+Error"
)

var colorPalettes = map[string][]string{
	"Professional": {"#2C3E50", "#34495E", "#7F8C8D", "#BDC3C7", "#ECF0F1"},
	"Friendly":     {"#3498DB", "#2980B9", "#5DADE2", "#AED6F1", "#EBF5FB"},
	"Innovative":   {"#9B59B6", "#8E44AD", "#BB8FCE", "#D7BDE2", "#F4ECF7"},
	"Luxurious":    {"#2C3E50", "#C0392B", "#E74C3C", "#F1948A", "#FADBD8"},
	"Playful":      {"#F1C40F", "#F39C12", "#F9E79F", "#FCF3CF", "#FEF9E7"},
	"Serious":      {"#2C3E50", "#34495E", "#7F8C8D", "#95A5A6", "#BDC3C7"},
	"Modern":       {"#16A085", "#1ABC9C", "#48C9B0", "#A3E4D7", "#D1F2EB"},
	"Traditional":  {"#8B4513", "#A0522D", "#CD853F", "#DEB887", "#F5DEB3"},
	"Bold":         {"#C0392B", "#E74C3C", "#F1948A", "#F5B7B1", "#FADBD8"},
	"Minimalist":   {"#2C3E50", "#34495E", "#7F8C8D", "#95A5A6", "#BDC3C7"},
}

var fontPairings = map[string][]dto.FontPair{
	"Professional": {{Primary: "Roboto", Secondary: "Open Sans"}, {Primary: "Montserrat", Secondary: "Lato"}, {Primary: "Poppins", Secondary: "Inter"}},
	"Friendly":     {{Primary: "Quicksand", Secondary: "Nunito"}, {Primary: "Comfortaa", Secondary: "Varela Round"}, {Primary: "Mukta", Secondary: "Work Sans"}},
	"Innovative":   {{Primary: "Space Grotesk", Secondary: "DM Sans"}, {Primary: "Outfit", Secondary: "Plus Jakarta Sans"}, {Primary: "Sora", Secondary: "Inter"}},
	"Luxurious":    {{Primary: "Playfair Display", Secondary: "Raleway"}, {Primary: "Cormorant", Secondary: "Montserrat"}, {Primary: "Libre Baskerville", Secondary: "Source Sans Pro"}},
	"Playful":      {{Primary: "Fredoka One", Secondary: "Nunito"}, {Primary: "Bubblegum Sans", Secondary: "Comfortaa"}, {Primary: "Baloo 2", Secondary: "Quicksand"}},
	"Serious":      {{Primary: "IBM Plex Sans", Secondary: "Inter"}, {Primary: "Source Sans Pro", Secondary: "Open Sans"}, {Primary: "Roboto", Secondary: "Lato"}},
	"Modern":       {{Primary: "Space Grotesk", Secondary: "Inter"}, {Primary: "Outfit", Secondary: "DM Sans"}, {Primary: "Sora", Secondary: "Plus Jakarta Sans"}},
	"Traditional":  {{Primary: "Merriweather", Secondary: "Source Sans Pro"}, {Primary: "Playfair Display", Secondary: "Lato"}, {Primary: "Libre Baskerville", Secondary: "Open Sans"}},
	"Bold":         {{Primary: "Bebas Neue", Secondary: "Roboto"}, {Primary: "Anton", Secondary: "Open Sans"}, {Primary: "Oswald", Secondary: "Lato"}},
	"Minimalist":   {{Primary: "Inter", Secondary: "Roboto"}, {Primary: "DM Sans", Secondary: "Open Sans"}, {Primary: "Plus Jakarta Sans", Secondary: "Lato"}},
}

var brandTones = map[string]string{
	"Professional": "Clear, authoritative, and trustworthy communication that builds confidence.",
	"Friendly":     "Warm, approachable, and conversational tone that makes everyone feel welcome.",
	"Innovative":   "Forward-thinking, dynamic, and cutting-edge communication that inspires.",
	"Luxurious":    "Sophisticated, elegant, and premium messaging that conveys exclusivity.",
	"Playful":      "Fun, energetic, and engaging tone that brings joy and excitement.",
	"Serious":      "Focused, determined, and committed communication that shows dedication.",
	"Modern":       "Contemporary, sleek, and progressive messaging that stays ahead of trends.",
	"Traditional":  "Timeless, reliable, and established communication that honors heritage.",
	"Bold":         "Confident, powerful, and impactful messaging that makes a statement.",
	"Minimalist":   "Clean, simple, and focused communication that emphasizes clarity.",
}

// ColorPalette returns five hex colors for a personality
func ColorPalette(personality string) []string {
	p, ok := colorPalettes[personality]
	if !ok {
		p = colorPalettes[defaultPersonality]
	}
	return append([]string(nil), p...)
}

// FontPairings returns three font pairs for a personality
func FontPairings(personality string) []dto.FontPair {
	p, ok := fontPairings[personality]
	if !ok {
		p = fontPairings[defaultPersonality]
	}
	return append([]dto.FontPair(nil), p...)
}

// BrandTone returns the voice description for a personality
func BrandTone(personality string) string {
	if t, ok := brandTones[personality]; ok {
		return t
	}
	return brandTones[defaultPersonality]
}

// SocialTemplates returns two draft posts per network for a brand
func SocialTemplates(brandName string) dto.SocialTemplates {
	tag := "#" + strings.Join(strings.Fields(brandName), "")
	return dto.SocialTemplates{
		Instagram: []string{
			fmt.Sprintf("📸 [Brand Update]\n\nExciting news from %s! Stay tuned for more updates.\n\n%s #brandupdate", brandName, tag),
			fmt.Sprintf("✨ [Product Feature]\n\nDiscover what makes %s special.\n\n%s #productfeature", brandName, tag),
		},
		Twitter: []string{
			fmt.Sprintf("🚀 [News Update]\n\n%s is making waves in the industry!\n\n%s #news", brandName, tag),
			fmt.Sprintf("💡 [Industry Insight]\n\nThoughts from %s on the latest trends.\n\n%s #insight", brandName, tag),
		},
		LinkedIn: []string{
			fmt.Sprintf("📊 [Industry Analysis]\n\n%s shares insights on market trends.\n\n%s #industry", brandName, tag),
			fmt.Sprintf("🎯 [Company Update]\n\nLatest developments from %s.\n\n%s #update", brandName, tag),
		},
	}
}

func logoPrompt(brandName, industry, personality string) string {
	return fmt.Sprintf("Create a modern, minimalist logo for %s, a %s company with a %s personality. "+
		"The logo should be simple, memorable, and professional. Vector style, clean design, suitable for business use.",
		brandName, industry, personality)
}
