package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecskit/ecs"
)

type EntityInfo struct {
	Entity         ecs.Entity
	ComponentTypes []string
	ComponentCount int
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	built         bool
	entityVersion uint64
	compVersion   uint64
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(w *DebugWindow, in *Inspector) {
	if !imgui.BeginV(w.Title, &w.Open, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCacheIfNeeded(in.Entities, in.Components)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		eb.cache.entities = nil
	}

	selected, hasSelection := in.Selected()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, entity := range eb.page(eb.filteredEntities()) {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := hasSelection && selected == entity.Entity
			if imgui.SelectableBoolV(entity.Entity.String(), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				in.Select(entity.Entity)
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	filtered := eb.filteredEntities()
	if totalPages := eb.pageCount(len(filtered)); totalPages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filtered)))
	}

	imgui.End()
}

// rebuildCacheIfNeeded drops the cached rows when either manager changed since the
// last rebuild. A kill followed by a respawn of the same index counts as a change.
func (eb *EntityBrowserComponent) rebuildCacheIfNeeded(em *ecs.EntityManager, cm *ecs.ComponentManager) {
	if !eb.cache.built || eb.cache.entityVersion != em.Version() || eb.cache.compVersion != cm.Version() {
		eb.cache.entities = nil
		eb.cache.built = true
		eb.cache.entityVersion = em.Version()
		eb.cache.compVersion = cm.Version()
	}

	if eb.cache.entities == nil {
		eb.rebuildCache(em, cm)
	}
}

func (eb *EntityBrowserComponent) rebuildCache(em *ecs.EntityManager, cm *ecs.ComponentManager) {
	eb.cache.entities = make([]EntityInfo, 0, em.Len())

	for _, e := range em.Entities() {
		types := cm.Components(e)
		names := make([]string, len(types))
		for i, ct := range types {
			names[i] = cm.TypeName(ct)
		}

		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			Entity:         e,
			ComponentTypes: names,
			ComponentCount: len(names),
		})
	}

	eb.sortEntities()
}

func (eb *EntityBrowserComponent) sortEntities() {
	sort.SliceStable(eb.cache.entities, func(i, j int) bool {
		a, b := eb.cache.entities[i], eb.cache.entities[j]
		if !eb.cache.sortAscending {
			a, b = b, a
		}

		switch eb.cache.sortColumn {
		case 1:
			return strings.Join(a.ComponentTypes, ",") < strings.Join(b.ComponentTypes, ",")
		case 2:
			return a.ComponentCount < b.ComponentCount
		default:
			return a.Entity.Index() < b.Entity.Index()
		}
	})
}

func (eb *EntityBrowserComponent) filteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))
		if !strings.Contains(entity.Entity.String(), filterLower) &&
			!strings.Contains(componentsStr, filterLower) {
			continue
		}
		filtered = append(filtered, entity)
	}

	return filtered
}

func (eb *EntityBrowserComponent) pageCount(total int) int {
	if eb.maxEntitiesPerPage <= 0 {
		return 1
	}
	return (total + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
}

func (eb *EntityBrowserComponent) page(entities []EntityInfo) []EntityInfo {
	if eb.maxEntitiesPerPage <= 0 {
		return entities
	}
	if pages := eb.pageCount(len(entities)); eb.currentPage >= pages {
		eb.currentPage = max(pages-1, 0)
	}

	start := eb.currentPage * eb.maxEntitiesPerPage
	end := min(start+eb.maxEntitiesPerPage, len(entities))
	return entities[start:end]
}
