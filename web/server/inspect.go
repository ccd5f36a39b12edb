package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/material"
	"github.com/df07/go-raycaster/pkg/renderer"
	"github.com/df07/go-raycaster/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	ScreenX      float64        `json:"screenX"`
	ScreenY      float64        `json:"screenY"`
	RayOrigin    [3]float64     `json:"rayOrigin"`
	RayDirection [3]float64     `json:"rayDirection"`
	Color        [3]float64     `json:"color"`
	ColorHex     string         `json:"colorHex"`
	GeometryType string         `json:"geometryType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	Properties   map[string]any `json:"properties,omitempty"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{float64(v.X), float64(v.Y), float64(v.Z)}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

func colorHex(c core.Color) string {
	r, g, b := c.RGB8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// extractMaterialInfo lists the material parameters used by shading
func extractMaterialInfo(mat *material.Material) map[string]any {
	if mat == nil {
		return map[string]any{}
	}
	return map[string]any{
		"roughness":       float64(mat.Roughness),
		"metallic":        float64(mat.Metallic),
		"albedo":          colorArray(mat.Albedo),
		"color":           colorHex(mat.Albedo),
		"reflectance":     colorArray(mat.Reflectance),
		"transmittance":   colorArray(mat.Transmittance),
		"ior":             float64(mat.IOR),
		"fresnelIor":      float64(mat.FresnelIOR),
		"baseReflectance": colorArray(mat.BaseReflectance()),
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(prim geometry.Primitive) (string, map[string]any) {
	properties := make(map[string]any)

	switch geom := prim.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = float64(geom.Radius)
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// findPrimitive returns the primitive responsible for hit. World.Cast only
// reports the hit record, so the primitives are tested again.
func findPrimitive(world *geometry.World, ray core.Ray, hit *geometry.Hit) geometry.Primitive {
	for _, prim := range world.Primitives() {
		if h, ok := prim.NearestIntersection(ray); ok && h.Distance == hit.Distance && h.Material == hit.Material {
			return prim
		}
	}
	return nil
}

// inspectPixel traces the center of one pixel with the same math as a render
func inspectPixel(sceneObj *scene.Scene, screen *renderer.Screen, px, py int) InspectResponse {
	sample := screen.Trace(sceneObj.Camera, sceneObj.World, px, py)

	response := InspectResponse{
		Hit:          sample.Hit != nil,
		ScreenX:      float64(sample.X),
		ScreenY:      float64(sample.Y),
		RayOrigin:    vecArray(sample.Ray.Origin),
		RayDirection: vecArray(sample.Ray.Direction),
		Color:        colorArray(sample.Color),
		ColorHex:     colorHex(sample.Color),
	}
	if sample.Hit == nil {
		return response
	}

	geometryType, geometryProps := extractGeometryInfo(findPrimitive(sceneObj.World, sample.Ray, sample.Hit))
	response.GeometryType = geometryType
	response.Point = vecArray(sample.Hit.Point(sample.Ray))
	response.Normal = vecArray(sample.Hit.Normal)
	response.Distance = float64(sample.Hit.Distance)
	response.Properties = map[string]any{
		"material": extractMaterialInfo(sample.Hit.Material),
		"geometry": geometryProps,
	}
	return response
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	if pixelX < 0 || pixelX >= sceneObj.Width || pixelY < 0 || pixelY >= sceneObj.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	screen, err := sceneObj.NewScreen()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, screen, pixelX, pixelY))
}
