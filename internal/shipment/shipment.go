package shipment

import (
	"fmt"
	"slices"
	"strings"

	"github.com/guttosm/shipment-optimizer/internal/domain/model"
)

// Shipment is one ship's loading plan: an occupancy grid split into height
// levels of exactly one container height, plus the containers placed on it.
//
// The ship is shared read-only; the grid and container lists are owned by the
// shipment. Strategies explore on copies (Copy) and commit with Load,
// CheckAndAdd or CheckAndJoin.
type Shipment struct {
	ship             *model.Ship
	containersHeight int
	levelsNr         int

	grid          grid
	occupiedCells int
	levels        [][]model.PlacedContainer
	containers    []model.Container
	ids           map[int]struct{}
}

// New creates an empty shipment on ship for containers of the given height.
func New(ship *model.Ship, containersHeight int) *Shipment {
	levelsNr := 0
	if containersHeight > 0 {
		levelsNr = ship.Height / containersHeight
	}
	return &Shipment{
		ship:             ship,
		containersHeight: containersHeight,
		levelsNr:         levelsNr,
		grid:             newGrid(levelsNr, ship.Length, ship.Width),
		levels:           make([][]model.PlacedContainer, levelsNr),
		ids:              make(map[int]struct{}),
	}
}

// Ship returns the ship the shipment is built on.
func (s *Shipment) Ship() *model.Ship { return s.ship }

// ContainersHeight returns the uniform container height used to split the ship into levels.
func (s *Shipment) ContainersHeight() int { return s.containersHeight }

// LevelsNr returns the number of height levels of the ship.
func (s *Shipment) LevelsNr() int { return s.levelsNr }

// Copy returns a deep copy of the shipment. With onlyShip set it returns an
// empty shipment on the same ship instead.
func (s *Shipment) Copy(onlyShip bool) *Shipment {
	c := New(s.ship, s.containersHeight)
	if !onlyShip {
		c.load(s)
	}
	return c
}

// Load overwrites the state of s with the state of other. It does nothing and
// returns false when other is built on a different ship.
func (s *Shipment) Load(other *Shipment) bool {
	if other == nil || other.ship != s.ship {
		return false
	}
	s.load(other)
	return true
}

func (s *Shipment) load(other *Shipment) {
	s.containersHeight = other.containersHeight
	s.levelsNr = other.levelsNr
	s.grid = other.grid.clone()
	s.occupiedCells = other.occupiedCells
	s.levels = make([][]model.PlacedContainer, len(other.levels))
	for i, level := range other.levels {
		s.levels[i] = slices.Clone(level)
	}
	s.containers = slices.Clone(other.containers)
	s.ids = make(map[int]struct{}, len(other.ids))
	for id := range other.ids {
		s.ids[id] = struct{}{}
	}
}

// UsedLevelsNr counts non-empty levels from the bottom up to the first empty one.
func (s *Shipment) UsedLevelsNr() int {
	used := 0
	for _, level := range s.levels {
		if len(level) == 0 {
			break
		}
		used++
	}
	return used
}

// FullVolume returns the ship volume, or only the volume of the used levels.
func (s *Shipment) FullVolume(onlyUsedLevels bool) int {
	if onlyUsedLevels {
		return s.containersHeight * s.UsedLevelsNr() * s.ship.Length * s.ship.Width
	}
	return s.ship.Height * s.ship.Length * s.ship.Width
}

// OccupiedVolume returns the volume taken by placed containers.
func (s *Shipment) OccupiedVolume() int {
	return s.occupiedCells * s.containersHeight
}

// EmptyVolume returns FullVolume minus OccupiedVolume.
func (s *Shipment) EmptyVolume(onlyUsedLevels bool) int {
	return s.FullVolume(onlyUsedLevels) - s.OccupiedVolume()
}

// Containers returns the placed containers in placement order.
func (s *Shipment) Containers() []model.Container {
	return slices.Clone(s.containers)
}

// Len returns the number of placed containers.
func (s *Shipment) Len() int {
	return len(s.containers)
}

// Contains reports whether the container with the given id is placed.
func (s *Shipment) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Timestamps returns the sorted set of timestamps of the placed containers.
func (s *Shipment) Timestamps() []int {
	set := make([]int, 0, len(s.containers))
	for _, c := range s.containers {
		set = append(set, c.Timestamp)
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// Levels returns a copy of the placed containers grouped by level.
func (s *Shipment) Levels() [][]model.PlacedContainer {
	out := make([][]model.PlacedContainer, len(s.levels))
	for i, level := range s.levels {
		out[i] = slices.Clone(level)
	}
	return out
}

// LevelGrid returns a snapshot of the occupancy of one level as [length][width]
// rows, or nil when the level does not exist.
func (s *Shipment) LevelGrid(level int) [][]uint8 {
	if level < 0 || level >= s.levelsNr {
		return nil
	}
	return s.grid.level(level)
}

// Free reports whether the cell exists and is unoccupied.
func (s *Shipment) Free(level, l, w int) bool {
	if level < 0 || level >= s.levelsNr || l < 0 || l >= s.ship.Length || w < 0 || w >= s.ship.Width {
		return false
	}
	return s.grid.at(level, l, w) == 0
}

func (s *Shipment) insideShip(pc model.PlacedContainer) bool {
	c1, c2 := pc.Corner1, pc.Corner2
	return c1.HeightLevel >= 0 && c1.HeightLevel < s.levelsNr &&
		c1.Length >= 0 && c1.Length <= s.ship.Length &&
		c1.Width >= 0 && c1.Width <= s.ship.Width &&
		c2.Length >= 0 && c2.Length <= s.ship.Length &&
		c2.Width >= 0 && c2.Width <= s.ship.Width
}

// stable reports whether at least half of pc's footprint rests on g's level below.
func stable(pc model.PlacedContainer, g grid) bool {
	level := pc.Level()
	if level == 0 {
		return true
	}
	return 2*g.footprintSum(pc, level-1) >= pc.Container.Area()
}

// validate runs all placement checks of pc against g. staged holds ids that
// are about to be added together with pc.
func (s *Shipment) validate(pc model.PlacedContainer, g grid, staged map[int]struct{}) error {
	if !s.insideShip(pc) {
		return ErrOutOfBounds
	}
	if g.footprintSum(pc, pc.Level()) != 0 {
		return ErrOverlap
	}
	if !stable(pc, g) {
		return ErrUnstable
	}
	if s.Contains(pc.Container.ID) {
		return ErrDuplicateContainer
	}
	if _, ok := staged[pc.Container.ID]; ok {
		return ErrDuplicateContainer
	}
	return nil
}

func (s *Shipment) add(pc model.PlacedContainer) {
	s.grid.fill(pc, 1)
	s.occupiedCells += pc.Container.Area()
	s.levels[pc.Level()] = append(s.levels[pc.Level()], pc)
	s.containers = append(s.containers, pc.Container)
	s.ids[pc.Container.ID] = struct{}{}
}

func (s *Shipment) remove(pc model.PlacedContainer) {
	idx := s.find(pc)
	if idx < 0 {
		return
	}
	level := pc.Level()
	s.grid.fill(pc, 0)
	s.occupiedCells -= pc.Container.Area()
	s.levels[level] = slices.Delete(s.levels[level], idx, idx+1)
	if i := slices.IndexFunc(s.containers, func(c model.Container) bool { return c.ID == pc.Container.ID }); i >= 0 {
		s.containers = slices.Delete(s.containers, i, i+1)
	}
	delete(s.ids, pc.Container.ID)
}

// find returns the index of pc in its level list, or -1.
func (s *Shipment) find(pc model.PlacedContainer) int {
	level := pc.Level()
	if level < 0 || level >= s.levelsNr {
		return -1
	}
	return slices.IndexFunc(s.levels[level], func(x model.PlacedContainer) bool {
		return x.Container.ID == pc.Container.ID && x.Corner1 == pc.Corner1
	})
}

// CheckAndAdd places pc if it lies inside the ship, does not overlap, is
// stable and is not placed yet. On failure the shipment is unchanged.
func (s *Shipment) CheckAndAdd(pc model.PlacedContainer) error {
	if err := s.validate(pc, s.grid, nil); err != nil {
		return err
	}
	s.add(pc)
	return nil
}

// CheckAndJoin stacks the levels of other on top of the used levels of s.
// Either every container of other is added or none is.
func (s *Shipment) CheckAndJoin(other *Shipment) error {
	if other == nil || other.ship != s.ship {
		return ErrShipMismatch
	}
	used := s.UsedLevelsNr()
	if used+other.UsedLevelsNr() > s.levelsNr {
		return ErrLevelCapacityExceeded
	}

	staged := s.grid.clone()
	stagedIDs := make(map[int]struct{}, len(other.containers))
	toAdd := make([]model.PlacedContainer, 0, len(other.containers))
	for _, level := range other.levels {
		for _, pc := range level {
			shifted := pc.Shifted(0, 0, used)
			if err := s.validate(shifted, staged, stagedIDs); err != nil {
				return fmt.Errorf("join container %d: %w", pc.Container.ID, err)
			}
			staged.fill(shifted, 1)
			stagedIDs[pc.Container.ID] = struct{}{}
			toAdd = append(toAdd, shifted)
		}
	}

	for _, pc := range toAdd {
		s.add(pc)
	}
	return nil
}

// supportedBy lists the containers one level up that would become unstable
// without pc.
func (s *Shipment) supportedBy(pc model.PlacedContainer) []model.PlacedContainer {
	level := pc.Level()
	if level >= s.levelsNr-1 || len(s.levels[level+1]) == 0 {
		return nil
	}
	without := s.grid.clone()
	without.fill(pc, 0)

	var dependents []model.PlacedContainer
	for _, above := range s.levels[level+1] {
		if !stable(above, without) {
			dependents = append(dependents, above)
		}
	}
	return dependents
}

// CheckAndRemove removes pc unless a container above depends on it.
func (s *Shipment) CheckAndRemove(pc model.PlacedContainer) error {
	if s.find(pc) < 0 {
		return ErrNotPlaced
	}
	if len(s.supportedBy(pc)) > 0 {
		return ErrSupportsOthers
	}
	s.remove(pc)
	return nil
}

// RemoveRecursively removes pc together with every container that would
// become unstable as a consequence. It returns false only when pc is not
// placed. Dependents live on strictly higher levels, so recursion ends at the
// top level.
func (s *Shipment) RemoveRecursively(pc model.PlacedContainer) bool {
	if s.find(pc) < 0 {
		return false
	}
	for _, dependent := range s.supportedBy(pc) {
		s.RemoveRecursively(dependent)
	}
	s.remove(pc)
	return true
}

// String describes the shipment level by level, top level first.
func (s *Shipment) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shipment on %s (empty volume = %d):", s.ship, s.EmptyVolume(false))
	for i := s.levelsNr - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n\tLevel %d: %d containers: %v", i, len(s.levels[i]), s.levels[i])
	}
	return b.String()
}
