package catalog

import (
	"log/slog"

	"github.com/udisondev/lootrandomizer/internal/engine"
	"github.com/udisondev/lootrandomizer/internal/loot"
)

type hookSpec struct {
	level string
	build func() loot.SessionHook
}

var hooks = map[string]hookSpec{
	"leviathan":               {level: "Orchid_WormBelly_P", build: func() loot.SessionHook { return leviathan{} }},
	"monster_truck":           {level: "Iris_Hub2_P", build: func() loot.SessionHook { return monsterTruck{} }},
	"doctors_orders_registry": {level: "PandoraPark_P", build: func() loot.SessionHook { return doctorsOrdersRegistry{} }},
}

// Leviathan has no death loot of its own. Its loot is thrown out of the
// worm's mouth when the kill objective completes.
const (
	leviathanObjective = "GD_Orchid_Plot_Mission09.M_Orchid_PlotMission09:KillBossWorm"
	leviathanAIClass   = "CharacterClass_Orchid_BossWorm"
)

var (
	leviathanVelocity = engine.Vector{X: -400, Y: -1800, Z: -400}
	leviathanLocation = engine.Vector{X: 1200, Y: -66000, Z: 3000}
)

const leviathanScatter = 200.0

type leviathan struct{}

func (leviathan) EnteredMap(mc *loot.MapContext) {
	mc.RunHook(engine.FuncUpdateMissionObjective, func(caller engine.Object, _ engine.Function, _ engine.Params) bool {
		objective := engine.ObjectField(caller, engine.FieldMissionObjective)
		if engine.PathName(objective) != leviathanObjective {
			return true
		}

		eng := mc.Engine()
		var worm engine.Object
		for _, pawn := range eng.WorldPawns() {
			if engine.Name(engine.ObjectField(pawn, engine.FieldAIClass)) == leviathanAIClass {
				worm = pawn
				break
			}
		}

		spawner := eng.ConstructObject(engine.ClassSpawnLootAroundPoint)
		spawner.Set(engine.FieldSpawnVelocity, leviathanVelocity)
		spawner.Set(engine.FieldSpawnVelocityRelativeTo, 1)
		spawner.Set(engine.FieldCustomLocation, leviathanLocation)
		spawner.Set(engine.FieldCircularScatterRadius, leviathanScatter)

		spawnLoot(mc, spawner, worm)
		return true
	})
}

func (leviathan) ExitedMap(mc *loot.MapContext) {
	mc.RemoveHook(engine.FuncUpdateMissionObjective)
}

const monsterTruckVehicle = "Class_MonsterTruck_AIOnly"

type monsterTruck struct{}

func (monsterTruck) EnteredMap(mc *loot.MapContext) {
	mc.RunHook(engine.FuncVehiclePawnDied, func(caller engine.Object, _ engine.Function, _ engine.Params) bool {
		if engine.Name(engine.ObjectField(caller, engine.FieldVehicleDef)) != monsterTruckVehicle {
			return true
		}
		spawner := mc.Engine().ConstructObject(engine.ClassSpawnLootAroundPoint)
		spawnLoot(mc, spawner, caller)
		return true
	})
}

func (monsterTruck) ExitedMap(mc *loot.MapContext) {
	mc.RemoveHook(engine.FuncVehiclePawnDied)
}

const cardboardBoxSpawner = "GD_Balance_Treasure.InteractiveObjectsTrap.MidgetHyperion.InteractiveObj_CardboardBox_MidgetHyperion:BehaviorProviderDefinition_1.Behavior_SpawnFromPopulationSystem_5"

// doctorsOrdersRegistry marks midgets spawned from the mission's cardboard
// boxes, so the midget filters can tell them apart from regular loot midgets.
type doctorsOrdersRegistry struct{}

func (doctorsOrdersRegistry) EnteredMap(mc *loot.MapContext) {
	mc.RunHook(engine.FuncPublishPopulationSpawn, func(caller engine.Object, _ engine.Function, params engine.Params) bool {
		if engine.PathName(caller) != cardboardBoxSpawner {
			return true
		}
		if actor, ok := params[engine.ParamSpawnedActor].(engine.Object); ok && actor != nil {
			mc.Classification().Mark(DoctorsOrdersMidgets, actor.PathName())
		}
		return true
	})
}

func (doctorsOrdersRegistry) ExitedMap(mc *loot.MapContext) {
	mc.RemoveHook(engine.FuncPublishPopulationSpawn)
}

// spawnLoot applies a spawn-loot-around-point behavior with the encounter's
// pool substituted.
func spawnLoot(mc *loot.MapContext, spawner, owner engine.Object) {
	apply := mc.Engine().Function(engine.FuncSpawnLootAroundPoint)
	if apply == nil {
		slog.Warn("spawn loot function unavailable", "encounter", mc.Encounter().Name())
		return
	}

	params := engine.Params{}
	if owner != nil {
		params[engine.ParamContext] = owner
	}
	err := mc.Substitute(spawner, engine.FieldItemPools, func() error {
		return apply.Call(spawner, params)
	})
	if err != nil {
		slog.Warn("custom loot spawn failed", "encounter", mc.Encounter().Name(), "level", mc.Level(), "error", err)
	}
}
