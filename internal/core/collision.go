package core

import (
	"fmt"
	"strings"
)

// Tile flags.
const (
	ColFlagSolid  = 1 << 0
	ColFlagDeath  = 1 << 1
	ColFlagNoHook = 1 << 2
)

const TileSize = 32

// Collision answers map geometry queries.
type Collision interface {
	CheckPoint(x, y float64) bool
	GetCollisionAt(x, y float64) int
	TestBox(pos, size Vec2) bool
	MoveBox(pos, vel *Vec2, size Vec2, elasticity float64)
	// IntersectLine returns the flags of the first solid tile between from
	// and to, the collision point and the last free point before it. Zero
	// flags means the line is clear.
	IntersectLine(from, to Vec2) (flags int, at, before Vec2)
	Size() (width, height int)
}

// TileMap is a rectangular grid of tiles. Coordinates outside the grid are
// clamped to the border tiles.
type TileMap struct {
	width, height int
	tiles         []int
	spawns        []Vec2
}

// NewTileMap returns an empty width x height map.
func NewTileMap(width, height int) *TileMap {
	return &TileMap{width: width, height: height, tiles: make([]int, width*height)}
}

// ParseTileMap reads an ASCII layout: '#' solid, 'N' unhookable solid,
// 'x' death, 'S' spawn point, anything else is air. All rows must have the
// same length.
func ParseTileMap(layout string) (*TileMap, error) {
	lines := strings.Split(strings.Trim(layout, "\n"), "\n")
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, fmt.Errorf("tilemap: empty layout")
	}
	m := NewTileMap(len(lines[0]), len(lines))
	for y, line := range lines {
		if len(line) != m.width {
			return nil, fmt.Errorf("tilemap: row %d has width %d, want %d", y, len(line), m.width)
		}
		for x, ch := range line {
			switch ch {
			case '#':
				m.Set(x, y, ColFlagSolid)
			case 'N':
				m.Set(x, y, ColFlagSolid|ColFlagNoHook)
			case 'x':
				m.Set(x, y, ColFlagDeath)
			case 'S':
				m.spawns = append(m.spawns, V(float64(x*TileSize+TileSize/2), float64(y*TileSize+TileSize/2)))
			}
		}
	}
	return m, nil
}

func (m *TileMap) Size() (int, int) { return m.width, m.height }

// Spawns returns the spawn points found while parsing.
func (m *TileMap) Spawns() []Vec2 { return m.spawns }

func (m *TileMap) Set(x, y, flags int) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.tiles[y*m.width+x] = flags
}

func (m *TileMap) tile(x, y int) int {
	nx := clampInt(x/TileSize, 0, m.width-1)
	ny := clampInt(y/TileSize, 0, m.height-1)
	return m.tiles[ny*m.width+nx]
}

func (m *TileMap) GetCollisionAt(x, y float64) int {
	return m.tile(roundToInt(x), roundToInt(y))
}

func (m *TileMap) CheckPoint(x, y float64) bool {
	return m.GetCollisionAt(x, y)&ColFlagSolid != 0
}

func (m *TileMap) TestBox(pos, size Vec2) bool {
	size = size.Scale(0.5)
	return m.CheckPoint(pos.X-size.X, pos.Y-size.Y) ||
		m.CheckPoint(pos.X+size.X, pos.Y-size.Y) ||
		m.CheckPoint(pos.X-size.X, pos.Y+size.Y) ||
		m.CheckPoint(pos.X+size.X, pos.Y+size.Y)
}

func (m *TileMap) IntersectLine(from, to Vec2) (int, Vec2, Vec2) {
	dist := from.Distance(to)
	end := int(dist + 1)
	last := from
	for i := 0; i < end; i++ {
		a := 0.0
		if dist > 0 {
			a = float64(i) / dist
		}
		pos := Mix(from, to, a)
		if m.CheckPoint(pos.X, pos.Y) {
			return m.GetCollisionAt(pos.X, pos.Y), pos, last
		}
		last = pos
	}
	return 0, to, to
}

// MoveBox advances pos by vel one sub-step per unit of distance, sliding
// along whichever axis is blocked.
func (m *TileMap) MoveBox(pos, vel *Vec2, size Vec2, elasticity float64) {
	p := *pos
	v := *vel
	dist := v.Length()
	steps := int(dist)
	if dist > 0.00001 {
		fraction := 1.0 / float64(steps+1)
		for i := 0; i <= steps; i++ {
			next := p.Add(v.Scale(fraction))
			if m.TestBox(next, size) {
				hits := 0
				if m.TestBox(V(p.X, next.Y), size) {
					next.Y = p.Y
					v.Y *= -elasticity
					hits++
				}
				if m.TestBox(V(next.X, p.Y), size) {
					next.X = p.X
					v.X *= -elasticity
					hits++
				}
				if hits == 0 {
					next = p
					v.X *= -elasticity
					v.Y *= -elasticity
				}
			}
			p = next
		}
	}
	*pos = p
	*vel = v
}

// layerClipped reports whether pos lies far outside the playable map.
func layerClipped(col Collision, pos Vec2) bool {
	w, h := col.Size()
	tx := roundToInt(pos.X) / TileSize
	ty := roundToInt(pos.Y) / TileSize
	return tx < -200 || tx > w+200 || ty < -200 || ty > h+200
}

const defaultLayout = `
########################################
#......................................#
#..S...............................S...#
#......................................#
#.........#########....#########.......#
#......................................#
#...S..............S...............S...#
#......................................#
####.....######..........######.....####
#......................................#
#..S................................S..#
#......................................#
#xxxx########################xxxxxxxxxx#
########################################
`

// DefaultMap is the arena used when no map is configured.
func DefaultMap() *TileMap {
	m, err := ParseTileMap(defaultLayout)
	if err != nil {
		panic(err)
	}
	return m
}
