package activity

// Defaults is the activity set a fresh tenant database starts with.
var Defaults = []Config{
	{Name: "Pushups", Category: "Workouts"},
	{Name: "Pullups", Category: "Workouts"},
	{Name: "Pool (laps)", Category: "Workouts"},
	{Name: RunningDistance, Category: "Workouts"},
	{Name: RunningPace, Category: "Workouts"},
	{Name: "Coffee", Category: "Bad Habits", IsBadHabit: true},
	{Name: "Sweets", Category: "Bad Habits", IsBadHabit: true},
	{Name: "Junk Food", Category: "Bad Habits", IsBadHabit: true},
	{Name: "Alcohol", Category: "Bad Habits", IsBadHabit: true},
	{Name: "Sauna (min)", Category: "Recovery"},
	{Name: "Supplements", Category: "Recovery"},
	{Name: "5", Category: "Bouldering"},
	{Name: "6A", Category: "Bouldering"},
	{Name: "6A+", Category: "Bouldering"},
	{Name: "6B", Category: "Bouldering"},
	{Name: "6C", Category: "Bouldering"},
	// Names are unique across categories; sport grade "5" collides with the
	// boulder grade and is omitted.
	{Name: "6a", Category: "Sport Climbing"},
	{Name: "6a+", Category: "Sport Climbing"},
	{Name: "6b", Category: "Sport Climbing"},
}
