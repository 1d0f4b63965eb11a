package transpiler

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generator writes the Bedrock addon tree (behavior pack + resource
// pack) and packages it into a .mcaddon archive.
type Generator struct {
	modID     string
	outputDir string
	bp        string
	rp        string

	stats Stats
}

// NewGenerator prepares a Generator rooted at outputDir.
func NewGenerator(modID, outputDir string) *Generator {
	return &Generator{
		modID:     modID,
		outputDir: outputDir,
		bp:        filepath.Join(outputDir, "behavior_pack"),
		rp:        filepath.Join(outputDir, "resource_pack"),
	}
}

// Stats returns the counters accumulated by Generate.
func (g *Generator) Stats() Stats {
	return g.stats
}

// OutputFile returns the path the packaged .mcaddon is written to.
func (g *Generator) OutputFile() string {
	return filepath.Join(g.outputDir, g.modID+".mcaddon")
}

// Generate writes the full addon from the analyzed jar content.
func (g *Generator) Generate(a *Analyzer) error {
	if err := g.createStructure(); err != nil {
		return err
	}
	if err := g.writeManifests(); err != nil {
		return err
	}

	// Behavior pack
	g.writeItems(a.Items)
	g.writeBlocks(a.Blocks)
	g.writeRecipes(a.Recipes)

	// Resource pack
	g.copyTextures(a.ItemTextures, filepath.Join(g.rp, "textures", "items"))
	g.copyTextures(a.BlockTextures, filepath.Join(g.rp, "textures", "blocks"))
	if err := g.writeItemTextureJSON(a.Items); err != nil {
		return err
	}
	if err := g.writeTerrainTextureJSON(a.Blocks); err != nil {
		return err
	}
	if err := g.writeBlocksJSON(a.Blocks); err != nil {
		return err
	}
	if err := g.writeLanguageFiles(a.Items, a.Blocks); err != nil {
		return err
	}

	return g.packMcaddon()
}

func (g *Generator) createStructure() error {
	dirs := []string{
		filepath.Join(g.bp, "items"),
		filepath.Join(g.bp, "blocks"),
		filepath.Join(g.bp, "recipes"),
		filepath.Join(g.rp, "textures", "items"),
		filepath.Join(g.rp, "textures", "blocks"),
		filepath.Join(g.rp, "texts"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create addon dirs: %w", err)
		}
	}
	return nil
}

// writeManifests writes the behavior and resource pack manifests. The
// behavior pack declares a dependency on the resource pack so both are
// activated together when the addon is imported.
func (g *Generator) writeManifests() error {
	bpUUID := uuid.New().String()
	rpUUID := uuid.New().String()
	title := titleCase(strings.ReplaceAll(g.modID, "_", " "))

	bp := map[string]any{
		"format_version": 2,
		"header": map[string]any{
			"name":               title + " BP",
			"description":        "Converted " + time.Now().Format("2006-01-02"),
			"uuid":               bpUUID,
			"version":            []int{1, 0, 0},
			"min_engine_version": []int{1, 20, 80},
		},
		"modules": []any{
			map[string]any{
				"type":    "data",
				"uuid":    uuid.New().String(),
				"version": []int{1, 0, 0},
			},
		},
		"dependencies": []any{
			map[string]any{"uuid": rpUUID, "version": []int{1, 0, 0}},
		},
	}

	rp := map[string]any{
		"format_version": 2,
		"header": map[string]any{
			"name":               title + " RP",
			"description":        "Textures and Models",
			"uuid":               rpUUID,
			"version":            []int{1, 0, 0},
			"min_engine_version": []int{1, 20, 80},
		},
		"modules": []any{
			map[string]any{
				"type":    "resources",
				"uuid":    uuid.New().String(),
				"version": []int{1, 0, 0},
			},
		},
	}

	if err := g.writeJSON(bp, filepath.Join(g.bp, "manifest.json")); err != nil {
		return err
	}
	return g.writeJSON(rp, filepath.Join(g.rp, "manifest.json"))
}

func (g *Generator) writeItems(items map[string]*JavaItem) {
	for name, item := range items {
		def := ConvertItem(item, g.modID)
		if err := g.writeJSON(def, filepath.Join(g.bp, "items", name+".json")); err == nil {
			g.stats.Items++
		}
	}
}

func (g *Generator) writeBlocks(blocks map[string]*JavaBlock) {
	for name, block := range blocks {
		def := ConvertBlock(block, g.modID)
		if err := g.writeJSON(def, filepath.Join(g.bp, "blocks", name+".json")); err == nil {
			g.stats.Blocks++
		}
	}
}

func (g *Generator) writeRecipes(recipes []Recipe) {
	for _, recipe := range recipes {
		def, ok := ConvertRecipe(recipe, g.modID)
		if !ok {
			continue
		}
		if err := g.writeJSON(def, filepath.Join(g.bp, "recipes", recipe.ID+".json")); err == nil {
			g.stats.Recipes++
		}
	}
}

func (g *Generator) copyTextures(textures map[string][]byte, dir string) {
	for name, data := range textures {
		if err := os.WriteFile(filepath.Join(dir, name+".png"), data, 0o644); err == nil {
			g.stats.Textures++
		}
	}
}

// writeItemTextureJSON maps item identifiers to their texture paths.
// The keys must match what minecraft:icon references.
func (g *Generator) writeItemTextureJSON(items map[string]*JavaItem) error {
	textureData := map[string]any{}
	for name, item := range items {
		textureData[g.modID+":"+name] = map[string]any{
			"textures": "textures/items/" + item.TextureName,
		}
	}

	return g.writeJSON(map[string]any{
		"resource_pack_name": g.modID,
		"texture_name":       "atlas.items",
		"texture_data":       textureData,
	}, filepath.Join(g.rp, "textures", "item_texture.json"))
}

func (g *Generator) writeTerrainTextureJSON(blocks map[string]*JavaBlock) error {
	textureData := map[string]any{}
	for name, block := range blocks {
		textureData[g.modID+"_"+name] = map[string]any{
			"textures": "textures/blocks/" + block.TextureName,
		}
	}

	return g.writeJSON(map[string]any{
		"resource_pack_name": g.modID,
		"texture_name":       "atlas.terrain",
		"texture_data":       textureData,
	}, filepath.Join(g.rp, "textures", "terrain_texture.json"))
}

func (g *Generator) writeBlocksJSON(blocks map[string]*JavaBlock) error {
	blocksData := map[string]any{}
	for name := range blocks {
		blocksData[g.modID+":"+name] = map[string]any{
			"textures": g.modID + "_" + name,
			"sound":    "stone",
		}
	}
	return g.writeJSON(blocksData, filepath.Join(g.rp, "blocks.json"))
}

func (g *Generator) writeLanguageFiles(items map[string]*JavaItem, blocks map[string]*JavaBlock) error {
	if err := g.writeJSON(map[string]any{
		"languages": []string{"en_US"},
	}, filepath.Join(g.rp, "texts", "languages.json")); err != nil {
		return err
	}

	var entries []string
	for name := range items {
		entries = append(entries, fmt.Sprintf("item.%s:%s.name=%s", g.modID, name, displayName(name)))
	}
	for name := range blocks {
		entries = append(entries, fmt.Sprintf("tile.%s:%s.name=%s", g.modID, name, displayName(name)))
	}
	sort.Strings(entries)

	langPath := filepath.Join(g.rp, "texts", "en_US.lang")
	if err := os.WriteFile(langPath, []byte(strings.Join(entries, "\n")), 0o644); err != nil {
		return fmt.Errorf("write lang file: %w", err)
	}
	return nil
}

// packMcaddon zips the behavior and resource pack trees into a single
// .mcaddon archive with paths relative to the output directory.
func (g *Generator) packMcaddon() error {
	out, err := os.Create(g.OutputFile())
	if err != nil {
		return fmt.Errorf("create mcaddon: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	for _, root := range []string{g.bp, g.rp} {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}

			rel, err := filepath.Rel(g.outputDir, path)
			if err != nil {
				return err
			}

			w, err := zw.Create(filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		})
		if err != nil {
			return fmt.Errorf("pack mcaddon: %w", err)
		}
	}

	return nil
}

func (g *Generator) writeJSON(data any, path string) error {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func displayName(name string) string {
	return titleCase(strings.ReplaceAll(name, "_", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
