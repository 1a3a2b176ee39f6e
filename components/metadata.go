package components

// FieldDescriptor describes a snapshot field for UI display.
type FieldDescriptor struct {
	ID           string  // Unique identifier
	Label        string  // Display name
	Format       string  // Printf format (e.g., "%.2f")
	Min          float64 // Minimum value (for bars)
	Max          float64 // Maximum value (for bars); <0 means use max_health
	IsBar        bool    // True to render as progress bar
	ShowWhenZero bool    // Show even when value is zero
}

// SnapshotFieldDescriptors returns the inspector rows for a selected actor.
// Field IDs must match cases in SnapshotValue().
func SnapshotFieldDescriptors() []FieldDescriptor {
	return []FieldDescriptor{
		{ID: "health", Label: "Health", Format: "%.0f", Min: 0, Max: -1, IsBar: true, ShowWhenZero: true},
		{ID: "x", Label: "X", Format: "%.1f", ShowWhenZero: true},
		{ID: "y", Label: "Y", Format: "%.1f", ShowWhenZero: true},
		{ID: "flash", Label: "Flash", Format: "%.2f", Min: 0, Max: 1, IsBar: true},
	}
}

// SnapshotValue extracts a snapshot field value by ID.
func SnapshotValue(s *Snapshot, fieldID string) float64 {
	switch fieldID {
	case "health":
		return s.Health
	case "max_health":
		return s.MaxHealth
	case "x":
		return s.Pos.X
	case "y":
		return s.Pos.Y
	case "flash":
		return s.Flash
	default:
		return 0
	}
}
