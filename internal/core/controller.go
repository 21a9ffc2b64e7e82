package core

// Controller holds the game-mode rules: where players spawn, what a spawn
// grants, how deaths are scored and what bots leave behind.
type Controller interface {
	SpawnPos() Vec2
	OnCharacterSpawn(c *Character)
	// OnCharacterDeath scores the death and returns the mode-special flags
	// of the kill message.
	OnCharacterDeath(victim *Character, killer *Player, weapon int) int
	CreatePickup(pos, dir Vec2, bot BotData)
}

type spawner interface {
	Spawns() []Vec2
}

// SurvivalController is the default mode: endless co-op against waves of
// bots with persistent inventories.
type SurvivalController struct {
	w *World
}

func NewSurvivalController(w *World) *SurvivalController {
	return &SurvivalController{w: w}
}

// SpawnPos picks one of the map's spawn points, or the first free tile
// centre when the map has none.
func (s *SurvivalController) SpawnPos() Vec2 {
	w := s.w
	if sp, ok := w.Col.(spawner); ok {
		if spawns := sp.Spawns(); len(spawns) > 0 {
			return spawns[w.Rand.Intn(len(spawns))]
		}
	}
	width, height := w.Col.Size()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := V(float64(x)*TileSize+TileSize/2, float64(y)*TileSize+TileSize/2)
			if !w.Col.TestBox(pos, V(PhysSize, PhysSize)) {
				return pos
			}
		}
	}
	return V(0, 0)
}

func (s *SurvivalController) OnCharacterSpawn(c *Character) {
	c.IncreaseHealth(-1)
}

func (s *SurvivalController) OnCharacterDeath(victim *Character, killer *Player, weapon int) int {
	if killer == nil || weapon == WeaponGame {
		return 0
	}
	p := victim.owner()
	if killer == p {
		killer.Score--
	} else if !killer.IsBot {
		killer.Score++
	}
	if weapon == WeaponSelf {
		p.RespawnTick = s.w.CurrentTick + s.w.TickSpeed*3
	}
	return 0
}

// CreatePickup drops the bot's loot table at pos, thrown along dir.
func (s *SurvivalController) CreatePickup(pos, dir Vec2, bot BotData) {
	if len(bot.Drops) == 0 {
		return
	}
	drops := make([]Drop, len(bot.Drops))
	copy(drops, bot.Drops)
	s.w.addPickup(newPickup(s.w, pos, dir, drops))
}
