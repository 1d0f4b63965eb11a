package transpiler

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
)

var (
	loaderRe   = regexp.MustCompile(`[-_](forge|fabric|neoforge|quilt|1\.\d+)`)
	versionRe  = regexp.MustCompile(`[-_]\d+\.?\d*\.?\d*`)
	sanitizeRe = regexp.MustCompile(`[^a-z0-9_]`)

	toolKeywords  = []string{"sword", "axe", "pickaxe", "shovel", "hoe"}
	armorKeywords = []string{"helmet", "chestplate", "leggings", "boots"}
)

// ModIDFromFilename derives a Bedrock-safe mod identifier from the jar
// file name by stripping loader and version suffixes.
func ModIDFromFilename(filename string) string {
	name := strings.ToLower(strings.TrimSuffix(path.Base(filepathToSlash(filename)), ".jar"))
	name = loaderRe.ReplaceAllString(name, "")
	name = versionRe.ReplaceAllString(name, "")
	return sanitizeRe.ReplaceAllString(name, "_")
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Analyzer reads a mod jar and collects the content the converter
// needs: textures, recipes, and the items/blocks inferred from them.
type Analyzer struct {
	ModID string

	Items  map[string]*JavaItem
	Blocks map[string]*JavaBlock

	ItemTextures  map[string][]byte
	BlockTextures map[string][]byte
	Recipes       []Recipe

	jarPath string
}

// NewAnalyzer prepares an Analyzer for the given jar path.
func NewAnalyzer(jarPath string) *Analyzer {
	return &Analyzer{
		ModID:         ModIDFromFilename(jarPath),
		Items:         make(map[string]*JavaItem),
		Blocks:        make(map[string]*JavaBlock),
		ItemTextures:  make(map[string][]byte),
		BlockTextures: make(map[string][]byte),
		jarPath:       jarPath,
	}
}

// Analyze walks the jar once, extracting item and block textures and
// recipe definitions. Unreadable entries are skipped rather than
// failing the whole conversion, matching how permissive mod jars are
// in practice.
func (a *Analyzer) Analyze() error {
	r, err := zip.OpenReader(a.jarPath)
	if err != nil {
		return fmt.Errorf("open jar: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		switch {
		case strings.Contains(f.Name, "/textures/item/") && strings.HasSuffix(f.Name, ".png"):
			if data, err := readZipFile(f); err == nil {
				a.ItemTextures[stem(f.Name)] = data
			}
		case strings.Contains(f.Name, "/textures/block/") && strings.HasSuffix(f.Name, ".png"):
			if data, err := readZipFile(f); err == nil {
				a.BlockTextures[stem(f.Name)] = data
			}
		case strings.Contains(f.Name, "/recipes/") && strings.HasSuffix(f.Name, ".json"):
			a.readRecipe(f)
		}
	}

	a.buildItems()
	a.buildBlocks()

	return nil
}

func (a *Analyzer) readRecipe(f *zip.File) {
	data, err := readZipFile(f)
	if err != nil {
		return
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	a.Recipes = append(a.Recipes, Recipe{ID: stem(f.Name), Data: payload})
}

// buildItems creates an item per item texture, classifying tools and
// armor from texture-name keywords.
func (a *Analyzer) buildItems() {
	for name := range a.ItemTextures {
		item := &JavaItem{
			Identifier:   name,
			TextureName:  name,
			MaxStackSize: 64,
		}

		switch {
		case containsAny(name, toolKeywords):
			item.IsTool = true
			item.AttackDamage = 4.0
			item.MaxDamage = 250
			item.MaxStackSize = 1
		case containsAny(name, armorKeywords):
			item.IsArmor = true
			item.MaxDamage = 250
			item.MaxStackSize = 1
		}

		a.Items[name] = item
	}
}

// buildBlocks creates a block per block texture with hardness
// heuristics for ores and solid building blocks.
func (a *Analyzer) buildBlocks() {
	for name := range a.BlockTextures {
		block := &JavaBlock{
			Identifier:  name,
			TextureName: name,
			Hardness:    1.5,
			Resistance:  6.0,
		}

		switch {
		case strings.Contains(name, "ore"):
			block.Hardness = 3.0
			block.Resistance = 3.0
			block.RequiresTool = true
		case strings.Contains(name, "block") || strings.Contains(name, "bricks"):
			block.Hardness = 5.0
			block.Resistance = 6.0
		}

		a.Blocks[name] = block
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func stem(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
