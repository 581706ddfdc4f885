// Package taxonomy defines the closed vocabularies of the campaign world
// model: node types and their subtypes, confidence levels, and the status
// enumerations for campaigns and game sessions. Everything here is static
// data; validation against it happens before anything reaches storage.
package taxonomy

import "strings"

// NodeType identifies a kind of world entity.
type NodeType string

const (
	NodeCharacter NodeType = "character"
	NodePlace     NodeType = "place"
	NodeItem      NodeType = "item"
	NodeFaction   NodeType = "faction"
	NodePlot      NodeType = "plot"
)

// Option is a vocabulary entry: a stored value plus its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var nodeTypes = []NodeType{NodeCharacter, NodePlace, NodeItem, NodeFaction, NodePlot}

var subtypes = map[NodeType][]Option{
	NodeCharacter: {
		{Value: "pc", Label: "Player Character"},
		{Value: "npc", Label: "NPC"},
		{Value: "villain", Label: "Villain"},
		{Value: "ally", Label: "Ally"},
		{Value: "neutral", Label: "Neutral"},
	},
	NodePlace: {
		{Value: "world", Label: "World"},
		{Value: "continent", Label: "Continent"},
		{Value: "region", Label: "Region"},
		{Value: "city", Label: "City"},
		{Value: "town", Label: "Town"},
		{Value: "village", Label: "Village"},
		{Value: "dungeon", Label: "Dungeon"},
		{Value: "building", Label: "Building"},
		{Value: "landmark", Label: "Landmark"},
	},
	NodeItem: {
		{Value: "weapon", Label: "Weapon"},
		{Value: "armor", Label: "Armor"},
		{Value: "artifact", Label: "Artifact"},
		{Value: "consumable", Label: "Consumable"},
		{Value: "treasure", Label: "Treasure"},
		{Value: "mundane", Label: "Mundane"},
	},
	NodeFaction: {
		{Value: "guild", Label: "Guild"},
		{Value: "government", Label: "Government"},
		{Value: "religious", Label: "Religious Order"},
		{Value: "criminal", Label: "Criminal Organization"},
		{Value: "military", Label: "Military"},
		{Value: "arcane", Label: "Arcane Order"},
	},
	NodePlot: {
		{Value: "main_quest", Label: "Main Quest"},
		{Value: "side_quest", Label: "Side Quest"},
		{Value: "character_arc", Label: "Character Arc"},
		{Value: "mystery", Label: "Mystery"},
		{Value: "conflict", Label: "Conflict"},
	},
}

var confidenceLevels = []Option{
	{Value: "canon", Label: "Canon (Established Fact)"},
	{Value: "likely", Label: "Likely (Probable)"},
	{Value: "rumor", Label: "Rumor (Unconfirmed)"},
	{Value: "unknown", Label: "Unknown (Placeholder)"},
}

var campaignStatuses = []Option{
	{Value: "setup", Label: "Setup"},
	{Value: "active", Label: "Active"},
	{Value: "paused", Label: "Paused"},
	{Value: "completed", Label: "Completed"},
}

var sessionStatuses = []Option{
	{Value: "planned", Label: "Planned"},
	{Value: "in_progress", Label: "In Progress"},
	{Value: "completed", Label: "Completed"},
}

var genres = []Option{
	{Value: "high_fantasy", Label: "High Fantasy"},
	{Value: "dark_fantasy", Label: "Dark Fantasy"},
	{Value: "low_fantasy", Label: "Low Fantasy"},
	{Value: "sword_and_sorcery", Label: "Sword & Sorcery"},
	{Value: "grimdark", Label: "Grimdark"},
	{Value: "comedic", Label: "Comedic"},
	{Value: "political_intrigue", Label: "Political Intrigue"},
	{Value: "horror", Label: "Horror"},
	{Value: "mystery", Label: "Mystery"},
	{Value: "exploration", Label: "Exploration"},
	{Value: "other", Label: "Other"},
}

var ruleSystems = []Option{
	{Value: "5e", Label: "D&D 5th Edition"},
	{Value: "5e_2024", Label: "D&D 5e (2024)"},
	{Value: "pathfinder_2e", Label: "Pathfinder 2e"},
	{Value: "pathfinder_1e", Label: "Pathfinder 1e"},
	{Value: "3.5e", Label: "D&D 3.5 Edition"},
	{Value: "osr", Label: "OSR / Old School"},
	{Value: "homebrew", Label: "Homebrew System"},
	{Value: "other", Label: "Other"},
}

// ContainerPlaceSubtypes are the place subtypes that can hold other places,
// used to build parent pickers in the location hierarchy.
var ContainerPlaceSubtypes = []string{"world", "continent", "region", "city", "town"}

// NodeTypes returns all node types in display order.
func NodeTypes() []NodeType {
	return nodeTypes
}

// ValidNodeType reports whether value names a known node type.
func ValidNodeType(value string) bool {
	for _, t := range nodeTypes {
		if string(t) == value {
			return true
		}
	}
	return false
}

// Subtypes returns the allowed subtypes for a node type, nil for unknown types.
func Subtypes(t NodeType) []Option {
	return subtypes[t]
}

// ValidSubtype reports whether value is in the subtype vocabulary of t.
func ValidSubtype(t NodeType, value string) bool {
	return containsValue(subtypes[t], value)
}

// ConfidenceLevels returns the in-fiction certainty vocabulary.
func ConfidenceLevels() []Option {
	return confidenceLevels
}

// ValidConfidence reports whether value is a known confidence level.
func ValidConfidence(value string) bool {
	return containsValue(confidenceLevels, value)
}

// CampaignStatuses returns the campaign lifecycle vocabulary.
func CampaignStatuses() []Option {
	return campaignStatuses
}

// ValidCampaignStatus reports whether value is a known campaign status.
func ValidCampaignStatus(value string) bool {
	return containsValue(campaignStatuses, value)
}

// SessionStatuses returns the game session status vocabulary.
func SessionStatuses() []Option {
	return sessionStatuses
}

// ValidSessionStatus reports whether value is a known session status.
func ValidSessionStatus(value string) bool {
	return containsValue(sessionStatuses, value)
}

// Genres returns the campaign genre options.
func Genres() []Option {
	return genres
}

// RuleSystems returns the rule system options.
func RuleSystems() []Option {
	return ruleSystems
}

// Plural returns the grouping key for a type: "character" -> "characters".
func Plural(value string) string {
	return value + "s"
}

// Label returns the display heading for a type: "character" -> "Characters".
func Label(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:] + "s"
}

func containsValue(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
