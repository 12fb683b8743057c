package sim

// Gameplay constants. These are part of the replay contract: changing any of
// them changes what every existing tape replays to, so none of them are
// configurable.

const (
	WorldWidth  int32 = 960
	WorldHeight int32 = 720

	WorldWidthQ12_4  int32 = 15360 // 960 * 16
	WorldHeightQ12_4 int32 = 11520 // 720 * 16

	StartingLives      int32  = 3
	ExtraLifeScoreStep uint32 = 10000

	ShipRadius              int32 = 14
	ShipTurnSpeedBAM        int32 = 3
	ShipThrustQ8_8          int32 = 20   // 280/3600 * 256 ~ 19.9
	ShipMaxSpeedQ8_8        int32 = 1451 // 340/60 * 256
	ShipMaxSpeedSqQ16_16    int32 = 1451 * 1451
	ShipRespawnFrames       int32 = 75
	ShipInvulnerableFrames  int32 = 120
	ShipBulletLimit               = 4
	ShipBulletCooldown      int32 = 10
	ShipBulletLifetime      int32 = 51
	ShipBulletSpeedQ8_8     int32 = 2219 // 520/60 * 256
	shipSpawnXQ12_4         int32 = 7680
	shipSpawnYQ12_4         int32 = 5760
	shipSpawnAngleBAM       uint8 = 192 // facing up

	AsteroidCap               = 27
	AsteroidRadiusLarge int32 = 48
	AsteroidRadiusMed   int32 = 28
	AsteroidRadiusSmall int32 = 16

	SaucerRadiusLarge    int32 = 22
	SaucerRadiusSmall    int32 = 16
	SaucerSpeedSmallQ8_8 int32 = 405 // 95/60 * 256
	SaucerSpeedLargeQ8_8 int32 = 299 // 70/60 * 256
	SaucerSpawnMinFrames int32 = 420
	SaucerSpawnMaxFrames int32 = 840
	SaucerBulletLimit          = 8
	SaucerBulletLifetime int32 = 84
	SaucerBulletSpeed    int32 = 1195 // 280/60 * 256

	BulletRadius int32 = 2

	ScoreLargeAsteroid uint32 = 20
	ScoreMediumAsteroid uint32 = 50
	ScoreSmallAsteroid uint32 = 100
	ScoreLargeSaucer   uint32 = 200
	ScoreSmallSaucer   uint32 = 1000

	LurkTimeThresholdFrames int32 = 360 // 6 s of no kills counts as lurking
	LurkSaucerSpawnFast     int32 = 180

	shipRespawnEdgePaddingQ12_4 int32 = 1536 // 96 px
	shipRespawnGridStepQ12_4    int32 = 1024 // 64 px

	waveSafeDistQ12_4   int32 = 2880
	waveSafeDistSqQ24_8 int32 = waveSafeDistQ12_4 * waveSafeDistQ12_4

	saucerStartXLeftQ12_4  int32 = -480
	saucerStartXRightQ12_4 int32 = 15840
	saucerStartYMinQ12_4   int32 = 1152
	saucerStartYMaxQ12_4   int32 = 10368
	saucerCullMinXQ12_4    int32 = -1280
	saucerCullMaxXQ12_4    int32 = 16640
)

// Asteroid launch speed ranges in Q8.8, [min, maxExclusive) per size.
var asteroidSpeedRange = [3][2]int32{
	AsteroidLarge:  {145, 248},
	AsteroidMedium: {265, 401},
	AsteroidSmall:  {418, 606},
}
