package catalog

import (
	"github.com/udisondev/lootrandomizer/internal/engine"
	"github.com/udisondev/lootrandomizer/internal/loot"
)

// DoctorsOrdersMidgets is the classification set of loot midgets released
// from the cardboard boxes of the Doctor's Orders mission.
const DoctorsOrdersMidgets = "doctors_orders_midgets"

// spaceCowboyPoint is the population point of the midget inside the Space
// Cowboy mission.
const spaceCowboyPoint = "OldDust_Mission_Side.TheWorld:PersistentLevel.WillowPopulationPoint_26"

var filters = map[string]loot.PawnFilter{
	"midget":                midget,
	"doctors_orders_midget": doctorsOrdersMidget,
	"space_cowboy_midget":   spaceCowboyMidget,
}

func midget(pawn engine.Object, cls *loot.Classification) bool {
	return !cls.Marked(DoctorsOrdersMidgets, engine.PathName(pawn)) && !spaceCowboyMidget(pawn, cls)
}

func doctorsOrdersMidget(pawn engine.Object, cls *loot.Classification) bool {
	return cls.Marked(DoctorsOrdersMidgets, engine.PathName(pawn))
}

func spaceCowboyMidget(pawn engine.Object, _ *loot.Classification) bool {
	return engine.PathName(engine.ObjectField(pawn, engine.FieldMySpawnPoint)) == spaceCowboyPoint
}
