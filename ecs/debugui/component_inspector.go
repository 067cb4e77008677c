package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

func (ci *ComponentInspectorComponent) Render(w *DebugWindow, in *Inspector) {
	if !imgui.BeginV(w.Title, &w.Open, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	selected, ok := in.Selected()
	if !ok {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", selected))
	imgui.Text(fmt.Sprintf("Index: %d  Generation: %d", selected.Index(), selected.Generation()))
	imgui.Separator()

	for _, ct := range in.Components.Components(selected) {
		component, ok := in.Components.GetComponent(selected, ct)
		if !ok {
			continue
		}

		if imgui.TreeNodeStr(in.Components.TypeName(ct)) {
			ci.renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderComponent draws an editor for every exported field. component is a pointer
// into component storage, so edits apply in place.
func (ci *ComponentInspectorComponent) renderComponent(component any) {
	val := reflect.ValueOf(component).Elem()
	if val.Kind() != reflect.Struct {
		ci.renderValue(val.Type().Name(), val)
		return
	}

	for _, field := range globalReflectionCache.GetFields(val.Type()) {
		ci.renderField(field, val.Field(field.Index))
	}
}

func (ci *ComponentInspectorComponent) renderField(field FieldInfo, val reflect.Value) {
	if field.IsPointer {
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", field.Name))
			return
		}
		val = val.Elem()
	}
	ci.renderValue(field.Name, val)
}

func (ci *ComponentInspectorComponent) renderValue(name string, val reflect.Value) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	label := fmt.Sprintf("##%s", name)

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		labelled(name, 150)
		if imgui.InputInt(label, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		labelled(name, 150)
		if imgui.InputInt(label, &v) && v >= 0 && val.CanSet() {
			val.SetUint(uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		labelled(name, 150)
		if imgui.InputFloat(label, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		labelled(name, 200)
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range globalReflectionCache.GetFields(val.Type()) {
				ci.renderField(nf, val.Field(nf.Index))
			}
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Array:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func labelled(name string, width float32) {
	imgui.Text(fmt.Sprintf("%s:", name))
	imgui.SameLine()
	imgui.SetNextItemWidth(width)
}
