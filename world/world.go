// world/world.go
// Copyright(c) 2022-2025 aloft contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package world procedurally generates the scenery the aircraft flies
// over: a terrain height grid, conical mountains, a cluster of city and
// airport buildings, and decorative trees and clouds. Generation is
// deterministic for a given seed.
package world

import (
	"github.com/mmp/aloft/math"
	"github.com/mmp/aloft/rand"
)

const (
	terrainSize  = 100 // grid cells per side
	terrainScale = 50  // m per cell
)

// Building is an axis-aligned box sitting on the ground at y=0.
type Building struct {
	Position [2]float32 // x, z of the footprint center
	Width    float32    // m, x extent
	Height   float32    // m, up from the ground
	Depth    float32    // m, z extent
}

type Mountain struct {
	Position [2]float32
	Radius   float32 // m
	Height   float32 // m
}

type Tree struct {
	Position [2]float32
	Height   float32 // m
}

type Cloud struct {
	Position [3]float32
	Size     float32
	Speed    float32 // m/s of eastward drift
}

// World holds the generated scenery. The height map covers
// terrainSize*terrainScale meters per side, centered on the origin.
type World struct {
	Seed      int64
	HeightMap [][]float32
	Buildings []Building
	Trees     []Tree
	Mountains []Mountain
	Clouds    []Cloud
}

// Generate builds the scenery for the given seed.
func Generate(seed int64) *World {
	r := rand.NewSeeded(seed)

	w := &World{Seed: seed}
	w.generateTerrain()
	w.generateBuildings(&r)
	w.generateTrees(&r)
	w.generateMountains(&r)
	w.generateClouds(&r)
	return w
}

func (w *World) generateTerrain() {
	w.HeightMap = make([][]float32, terrainSize)
	for x := range w.HeightMap {
		w.HeightMap[x] = make([]float32, terrainSize)
	}

	// Cheap sinusoidal noise: five octaves, amplitude halving per octave.
	for octave := range 5 {
		scale := float32(int(1) << octave)
		amplitude := 50 / scale
		for x := range terrainSize {
			for z := range terrainSize {
				w.HeightMap[x][z] += amplitude * math.Sin(float32(x)/(10*scale)) * math.Cos(float32(z)/(10*scale))
			}
		}
	}
}

func (w *World) generateBuildings(r *rand.Rand) {
	// City blocks around the center; towers shrink with distance from it.
	for range 30 {
		x := float32(-1000 + r.Intn(2001))
		z := float32(-1000 + r.Intn(2001))

		distance := math.Sqrt(x*x + z*z)
		maxHeight := max(50, 300-distance/10)

		w.Buildings = append(w.Buildings, Building{
			Position: [2]float32{x, z},
			Width:    float32(30 + r.Intn(51)),
			Height:   float32(50 + r.Intn(int(maxHeight)-50+1)),
			Depth:    float32(30 + r.Intn(51)),
		})
	}

	// Low buildings around the airport.
	for range 10 {
		w.Buildings = append(w.Buildings, Building{
			Position: [2]float32{float32(-300 + r.Intn(601)), float32(-300 + r.Intn(601))},
			Width:    float32(40 + r.Intn(61)),
			Height:   float32(20 + r.Intn(31)),
			Depth:    float32(40 + r.Intn(61)),
		})
	}
}

func (w *World) generateTrees(r *rand.Rand) {
	// A forest ring outside the city.
	for range 100 {
		angle := r.Float32Range(0, 2*math.Pi)
		dist := r.Float32Range(1500, 3000)
		w.Trees = append(w.Trees, Tree{
			Position: [2]float32{dist * math.Cos(angle), dist * math.Sin(angle)},
			Height:   float32(10 + r.Intn(21)),
		})
	}
}

func (w *World) generateMountains(r *rand.Rand) {
	// Big cones on the horizon.
	for range 8 {
		angle := r.Float32Range(0, 2*math.Pi)
		dist := r.Float32Range(3000, 5000)
		w.Mountains = append(w.Mountains, Mountain{
			Position: [2]float32{dist * math.Cos(angle), dist * math.Sin(angle)},
			Radius:   float32(300 + r.Intn(301)),
			Height:   float32(200 + r.Intn(301)),
		})
	}
}

func (w *World) generateClouds(r *rand.Rand) {
	for range 20 {
		w.Clouds = append(w.Clouds, Cloud{
			Position: [3]float32{
				float32(-3000 + r.Intn(6001)),
				float32(400 + r.Intn(601)),
				float32(-3000 + r.Intn(6001)),
			},
			Size:  float32(50 + r.Intn(101)),
			Speed: r.Float32Range(5, 15),
		})
	}
}

// Update drifts the clouds eastward; everything else is static.
func (w *World) Update(dt float32) {
	for i := range w.Clouds {
		w.Clouds[i].Position[0] += w.Clouds[i].Speed * dt
		if w.Clouds[i].Position[0] > 3500 {
			w.Clouds[i].Position[0] = -3500
		}
	}
}

// TerrainHeight returns the ground height at (x, z): the grid cell height
// plus any mountain cone covering the point, max-combined. The base
// terrain is 0 outside the grid.
func (w *World) TerrainHeight(x, z float32) float32 {
	gx := int(x/terrainScale + terrainSize/2)
	gz := int(z/terrainScale + terrainSize/2)

	var h float32
	if gx >= 0 && gx < terrainSize && gz >= 0 && gz < terrainSize {
		h = w.HeightMap[gx][gz]
	}

	for i := range w.Mountains {
		m := &w.Mountains[i]
		if dist := math.Distance2f([2]float32{x, z}, m.Position); dist < m.Radius {
			h = max(h, m.Height*(1-dist/m.Radius))
		}
	}
	return h
}

// Distance returns the distance from p to the closest point of the
// building's bounding box, 0 if p is inside it.
func (b *Building) Distance(p [3]float32) float32 {
	dx := max(b.Position[0]-b.Width/2-p[0], 0, p[0]-(b.Position[0]+b.Width/2))
	dy := max(-p[1], 0, p[1]-b.Height)
	dz := max(b.Position[1]-b.Depth/2-p[2], 0, p[2]-(b.Position[1]+b.Depth/2))
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// MinBuildingDistance returns the distance from p to the nearest building,
// +Inf if there are none.
func (w *World) MinBuildingDistance(p [3]float32) float32 {
	minDist := math.Inf(1)
	for i := range w.Buildings {
		minDist = min(minDist, w.Buildings[i].Distance(p))
	}
	return minDist
}
