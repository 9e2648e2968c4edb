// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// Icon identifies one of the pictograms a service card can show.
type Icon string

// Supported service icons.
const (
	IconPalette   Icon = "Palette"
	IconGlobe     Icon = "Globe"
	IconPenTool   Icon = "PenTool"
	IconImage     Icon = "Image"
	IconLayout    Icon = "Layout"
	IconSparkles  Icon = "Sparkles"
	IconMegaphone Icon = "Megaphone"
	IconBarChart3 Icon = "BarChart3"
	IconTarget    Icon = "Target"
	IconZap       Icon = "Zap"
	IconLayers    Icon = "Layers"
	IconBox       Icon = "Box"
	IconShare2    Icon = "Share2"
	IconEye       Icon = "Eye"
)

// DefaultIcon is shown for services whose stored icon is missing or unknown.
const DefaultIcon = IconPalette

// Icons lists every supported icon in picker order.
var Icons = []Icon{
	IconPalette, IconGlobe, IconPenTool, IconImage, IconLayout, IconSparkles,
	IconMegaphone, IconBarChart3, IconTarget, IconZap, IconLayers, IconBox,
	IconShare2, IconEye,
}

// ParseIcon resolves a token to a supported icon, ignoring case.
func ParseIcon(token string) (Icon, bool) {
	token = strings.TrimSpace(token)
	for _, icon := range Icons {
		if strings.EqualFold(string(icon), token) {
			return icon, true
		}
	}
	return "", false
}

// IconOrDefault resolves a stored token, falling back to DefaultIcon.
func IconOrDefault(token string) Icon {
	if icon, ok := ParseIcon(token); ok {
		return icon
	}
	return DefaultIcon
}
