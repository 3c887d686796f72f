package engine

// Engine functions hooked or invoked by the loot core.
const (
	FuncPawnDied               = "WillowGame.WillowAIPawn.Died"
	FuncVehiclePawnDied        = "Engine.Pawn.Died"
	FuncSpawnItems             = "WillowGame.Behavior_SpawnItems.ApplyBehaviorToContext"
	FuncSpawnLootAroundPoint   = "WillowGame.Behavior_SpawnLootAroundPoint.ApplyBehaviorToContext"
	FuncUpdateMissionObjective = "WillowGame.Behavior_UpdateMissionObjective.ApplyBehaviorToContext"
	FuncPublishPopulationSpawn = "WillowGame.Behavior_SpawnFromPopulationSystem.PublishBehaviorOutput"
)

// Engine classes.
const (
	ClassItemPoolDefinition        = "ItemPoolDefinition"
	ClassSpawnLootAroundPoint      = "Behavior_SpawnLootAroundPoint"
	ClassInteractiveBalance        = "InteractiveObjectBalanceDefinition"
	ClassAIPawnBalanceDefinition   = "AIPawnBalanceDefinition"
	ClassBehaviorSpawnItems        = "Behavior_SpawnItems"
	ClassWillowAIPawn              = "WillowAIPawn"
	ClassWillowPopulationPoint     = "WillowPopulationPoint"
	ClassBehaviorUpdateObjective   = "Behavior_UpdateMissionObjective"
	ClassBehaviorPopulationSpawner = "Behavior_SpawnFromPopulationSystem"
)

// Object fields.
const (
	// Shared pool-list fields read by the engine when a drop materializes.
	FieldDefaultItemPoolList = "DefaultItemPoolList" // AIPawnBalanceDefinition
	FieldItemPoolList        = "ItemPoolList"        // Behavior_SpawnItems
	FieldItemPools           = "ItemPools"           // Behavior_SpawnLootAroundPoint

	FieldBalanceDefinition = "BalanceDefinition"
	FieldTransformLevel    = "TransformLevel"
	FieldMySpawnPoint      = "MySpawnPoint"
	FieldAIClass           = "AIClass"
	FieldVehicleDef        = "VehicleDef"
	FieldMissionObjective  = "MissionObjective"

	FieldSpawnVelocity           = "SpawnVelocity"
	FieldSpawnVelocityRelativeTo = "SpawnVelocityRelativeTo"
	FieldCustomLocation          = "CustomLocation"
	FieldCircularScatterRadius   = "CircularScatterRadius"

	FieldLoot            = "Loot"
	FieldItemAttachments = "ItemAttachments"
	FieldItemPool        = "ItemPool"
)

// Call parameters.
const (
	ParamSpawnedActor = "SpawnedActor"
	ParamContext      = "ContextObject"
)
