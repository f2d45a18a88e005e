package pubgapi

// damageCauserNames maps telemetry damage causer identifiers to display
// names. Identifiers missing from the table pass through unchanged.
var damageCauserNames = map[string]string{
	"AIPawn_Base_Female_C":              "AI Player",
	"AIPawn_Base_Male_C":                "AI Player",
	"BP_M_Kart_v2_Roaming_C":            "Quad",
	"BattleRoyaleModeController_Def_C":  "Bluezone",
	"BattleRoyaleModeController_Desert_C": "Bluezone",
	"BlackZoneController_Def_C":         "Blackzone",
	"Bluezonebomb_EffectActor_C":        "Bluezone Grenade Effect",
	"Buff_DecreaseBreathInApnea_C":      "Drowning",
	"Buggy_A_01_C":                      "Buggy",
	"Buggy_A_02_C":                      "Buggy",
	"Dacia_A_01_v2_C":                   "Dacia",
	"Dacia_A_02_v2_C":                   "Dacia",
	"Dacia_A_03_v2_C":                   "Dacia",
	"Dacia_A_04_v2_C":                   "Dacia",
	"DroppedItemGroup":                  "Object Fragments",
	"Mortar_Projectile_C":               "Mortar Projectile",
	"None":                              "None",
	"PanzerFaust100M_Projectile_C":      "Panzerfaust Projectile",
	"PG117_A_01_C":                      "Motor Glider",
	"PlayerFemale_A_C":                  "Player",
	"PlayerMale_A_C":                    "Player",
	"ProjC4_C":                          "C4",
	"ProjGrenade_C":                     "Frag Grenade",
	"ProjIncendiary_C":                  "Incendiary Projectile",
	"ProjMolotov_C":                     "Molotov Cocktail",
	"ProjMolotov_DamageField_Direct_C":  "Molotov Cocktail Fire Field",
	"ProjStickyGrenade_C":               "Sticky Bomb",
	"RacingDestructiblePropaneTankActor_C": "Propane Tank",
	"RedZoneBomb_C":                     "Redzone",
	"RedZoneBombingField":               "Redzone",
	"Uaz_A_01_C":                        "UAZ",
	"Uaz_Armored_C":                     "UAZ (armored)",
	"Uaz_B_01_C":                        "UAZ",
	"Uaz_C_01_C":                        "UAZ",
	"WeapACE32_C":                       "ACE32",
	"WeapAK47_C":                        "AKM",
	"WeapAUG_C":                         "AUG A3",
	"WeapAWM_C":                         "AWM",
	"WeapBerreta686_C":                  "S686",
	"WeapBerylM762_C":                   "Beryl M762",
	"WeapBizonPP19_C":                   "PP-19 Bizon",
	"WeapCowbarProjectile_C":            "Crowbar Projectile",
	"WeapCowbar_C":                      "Crowbar",
	"WeapCrossbow_1_C":                  "Crossbow",
	"WeapDP12_C":                        "DBS",
	"WeapDP28_C":                        "DP-28",
	"WeapDesertEagle_C":                 "Deagle",
	"WeapDuncansHK416_C":                "M416",
	"WeapFNFal_C":                       "SLR",
	"WeapG18_C":                         "P18C",
	"WeapG36C_C":                        "G36C",
	"WeapGroza_C":                       "Groza",
	"WeapHK416_C":                       "M416",
	"WeapJuliesKar98k_C":                "Kar98k",
	"WeapK2_C":                          "K2",
	"WeapKar98k_C":                      "Kar98k",
	"WeapL6_C":                          "Lynx AMR",
	"WeapLunchmeatsAK47_C":              "AKM",
	"WeapM16A4_C":                       "M16A4",
	"WeapM1911_C":                       "P1911",
	"WeapM249_C":                        "M249",
	"WeapM24_C":                         "M24",
	"WeapM9_C":                          "P92",
	"WeapMG3_C":                         "MG3",
	"WeapMP5K_C":                        "MP5K",
	"WeapMP9_C":                         "MP9",
	"WeapMacheteProjectile_C":           "Machete Projectile",
	"WeapMachete_C":                     "Machete",
	"WeapMadsQBU88_C":                   "QBU88",
	"WeapMini14_C":                      "Mini 14",
	"WeapMk12_C":                        "Mk12",
	"WeapMk14_C":                        "Mk14 EBR",
	"WeapMk47Mutant_C":                  "Mk47 Mutant",
	"WeapMosinNagant_C":                 "Mosin-Nagant",
	"WeapNagantM1895_C":                 "R1895",
	"WeapOriginS12_C":                   "O12",
	"WeapP90_C":                         "P90",
	"WeapPanProjectile_C":               "Pan Projectile",
	"WeapPan_C":                         "Pan",
	"WeapPanzerFaust100M1_C":            "Panzerfaust",
	"WeapQBU88_C":                       "QBU88",
	"WeapQBZ95_C":                       "QBZ95",
	"WeapRhino_C":                       "R45",
	"WeapSCAR-L_C":                      "SCAR-L",
	"WeapSKS_C":                         "SKS",
	"WeapSaiga12_C":                     "S12K",
	"WeapSawnoff_C":                     "Sawed-off",
	"WeapSickleProjectile_C":            "Sickle Projectile",
	"WeapSickle_C":                      "Sickle",
	"WeapThompson_C":                    "Tommy Gun",
	"WeapTurret_KJ_C":                   "Mounted Turret",
	"WeapUMP_C":                         "UMP45",
	"WeapUZI_C":                         "Micro Uzi",
	"WeapVSS_C":                         "VSS",
	"WeapVector_C":                      "Vector",
	"WeapWin94_C":                       "Win94",
	"WeapWinchester_C":                  "S1897",
	"Weapvz61Skorpion_C":                "Skorpion",
}

// WeaponDisplayName resolves a telemetry damage causer identifier to its
// display name, passing unknown identifiers through unchanged.
func WeaponDisplayName(causer string) string {
	if name, ok := damageCauserNames[causer]; ok {
		return name
	}
	return causer
}
