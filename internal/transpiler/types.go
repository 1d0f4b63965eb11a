package transpiler

import "time"

// JavaItem is an item discovered in a Java Edition mod jar.
type JavaItem struct {
	Identifier   string
	TextureName  string
	MaxStackSize int
	MaxDamage    int
	AttackDamage float64
	IsTool       bool
	IsArmor      bool
	IsFood       bool
	FoodValue    int
}

// JavaBlock is a block discovered in a Java Edition mod jar.
type JavaBlock struct {
	Identifier    string
	TextureName   string
	Hardness      float64
	Resistance    float64
	RequiresTool  bool
	LightEmission int
}

// Recipe is a raw Java Edition recipe definition, kept as loose JSON
// because recipe files vary wildly between mods and loaders.
type Recipe struct {
	ID   string
	Data map[string]any
}

// Stats counts what the conversion produced.
type Stats struct {
	Items    int
	Blocks   int
	Recipes  int
	Textures int
}

// Result is the outcome of a successful conversion.
type Result struct {
	ModID      string
	OutputFile string
	Stats      Stats
	Elapsed    time.Duration
}
