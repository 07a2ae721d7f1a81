// Package storagetest holds behaviour checks shared by every storage.Store
// implementation. Backends call Run from their own tests.
package storagetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fdg312/health-diary/internal/codec"
	"github.com/fdg312/health-diary/internal/nutrients"
	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// Factory returns a fresh, empty store.
type Factory func(t *testing.T) storage.Store

// Run executes the shared suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	cases := []struct {
		name string
		fn   func(*testing.T, storage.Store)
	}{
		{"FoodCRUD", testFoodCRUD},
		{"FoodDayBoundaries", testFoodDayBoundaries},
		{"FoodSearchHistory", testFoodSearchHistory},
		{"DuplicateInsertConflicts", testDuplicateInsert},
		{"MissingIDIsNoOp", testMissingIDNoOp},
		{"ExerciseAggregates", testExerciseAggregates},
		{"WaterByDate", testWaterByDate},
		{"SupplementNames", testSupplementNames},
		{"UnencodableValuesRejected", testUnencodableValues},
		{"LatestWeight", testLatestWeight},
		{"CustomFoodBarcode", testCustomFoodBarcode},
		{"RecipeUpsertAndSearch", testRecipes},
		{"MealPlansAndGroceryLists", testMealPlans},
		{"GoalLifecycle", testGoals},
		{"ProfileSingleton", testProfile},
		{"MetaFlags", testMetaFlags},
		{"Exports", testExports},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			tc.fn(t, s)
		})
	}
}

func day(d int, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.Local)
}

func testFoodCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()
	foods := s.Foods()

	entry := &storage.FoodEntry{
		Name:         "Oatmeal",
		Date:         day(10, 8),
		MealType:     storage.MealBreakfast,
		ServingSize:  1,
		ServingUnit:  "cup",
		ServingCount: 2,
		Calories:     150,
		Protein:      5,
		Micronutrients: nutrients.FromMap(map[string]float64{
			"fiber": 4,
			"iron":  1.5,
		}),
	}
	if err := foods.InsertFood(ctx, entry); err != nil {
		t.Fatalf("InsertFood: %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	got, err := foods.GetFood(ctx, entry.ID)
	if err != nil || got == nil {
		t.Fatalf("GetFood: %v, %v", got, err)
	}
	if got.Name != "Oatmeal" || got.MealType != storage.MealBreakfast || !got.Date.Equal(entry.Date) {
		t.Errorf("unexpected entry %+v", got)
	}
	if v, _ := got.Micronutrients.Get(nutrients.Fiber); v != 4 {
		t.Errorf("fiber = %v, want 4", v)
	}

	got.Calories = 200
	if err := foods.UpdateFood(ctx, got); err != nil {
		t.Fatalf("UpdateFood: %v", err)
	}
	total, err := foods.SumCaloriesForDate(ctx, day(10, 0))
	if err != nil {
		t.Fatalf("SumCaloriesForDate: %v", err)
	}
	if total != 400 {
		t.Errorf("total = %v, want 400", total)
	}

	if err := foods.DeleteFood(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteFood: %v", err)
	}
	got, err = foods.GetFood(ctx, entry.ID)
	if err != nil || got != nil {
		t.Errorf("expected nil after delete, got %v, %v", got, err)
	}

	total, err = foods.SumCaloriesForDate(ctx, day(10, 0))
	if err != nil || total != 0 {
		t.Errorf("empty sum = %v, %v", total, err)
	}
}

func testFoodDayBoundaries(t *testing.T, s storage.Store) {
	ctx := context.Background()
	foods := s.Foods()

	midnight := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.Local)
	times := []time.Time{
		midnight.Add(-time.Millisecond), // previous day
		midnight,
		midnight.Add(12 * time.Hour),
		midnight.Add(24*time.Hour - time.Millisecond),
		midnight.Add(24 * time.Hour), // next day
	}
	for i, ts := range times {
		e := &storage.FoodEntry{Name: "f", Date: ts, MealType: storage.MealSnack, ServingCount: 1, Calories: float64(i + 1)}
		if err := foods.InsertFood(ctx, e); err != nil {
			t.Fatalf("InsertFood: %v", err)
		}
	}

	list, err := foods.ListFoodsByDate(ctx, midnight.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("ListFoodsByDate: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if !list[0].Date.After(list[len(list)-1].Date) {
		t.Error("expected newest first")
	}

	if err := foods.DeleteFoodsForDate(ctx, midnight); err != nil {
		t.Fatalf("DeleteFoodsForDate: %v", err)
	}
	all, err := foods.ListFoodsInRange(ctx, midnight.Add(-time.Hour), midnight.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("ListFoodsInRange: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len = %d, want 2 after deleting the day", len(all))
	}
}

func testFoodSearchHistory(t *testing.T, s storage.Store) {
	ctx := context.Background()
	for _, name := range []string{"Banana", "banana bread", "Apple", "Banana"} {
		e := &storage.FoodEntry{Name: name, Date: day(12, 9), MealType: storage.MealSnack, ServingCount: 1}
		if err := s.Foods().InsertFood(ctx, e); err != nil {
			t.Fatalf("InsertFood: %v", err)
		}
	}
	names, err := s.Foods().SearchFoodHistory(ctx, "BAN", 10)
	if err != nil {
		t.Fatalf("SearchFoodHistory: %v", err)
	}
	if len(names) != 2 {
		t.Errorf("names = %v, want 2 distinct", names)
	}
}

func testDuplicateInsert(t *testing.T, s storage.Store) {
	ctx := context.Background()
	id := uuid.New()
	first := &storage.WaterEntry{ID: id, Amount: 8, Unit: "oz", Timestamp: day(10, 9)}
	if err := s.Water().InsertWater(ctx, first); err != nil {
		t.Fatalf("InsertWater: %v", err)
	}
	dup := &storage.WaterEntry{ID: id, Amount: 16, Unit: "oz", Timestamp: day(10, 10)}
	if err := s.Water().InsertWater(ctx, dup); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("duplicate insert err = %v, want ErrConflict", err)
	}
}

func testMissingIDNoOp(t *testing.T, s storage.Store) {
	ctx := context.Background()
	ghost := &storage.ExerciseEntry{ID: uuid.New(), Name: "ghost", Date: day(10, 7)}
	if err := s.Exercises().UpdateExercise(ctx, ghost); err != nil {
		t.Errorf("UpdateExercise on missing id: %v", err)
	}
	if err := s.Exercises().DeleteExercise(ctx, ghost.ID); err != nil {
		t.Errorf("DeleteExercise on missing id: %v", err)
	}
	got, err := s.Exercises().GetExercise(ctx, ghost.ID)
	if err != nil || got != nil {
		t.Errorf("update must not create rows: %v, %v", got, err)
	}
}

func testExerciseAggregates(t *testing.T, s storage.Store) {
	ctx := context.Background()
	ex := s.Exercises()
	entries := []storage.ExerciseEntry{
		{Name: "Run", Category: "cardio", Date: day(10, 7), DurationMinutes: 30, CaloriesBurned: 300},
		{Name: "Lift", Category: "strength", Date: day(10, 18), DurationMinutes: 45, CaloriesBurned: 200},
		{Name: "Walk", Category: "cardio", Date: day(11, 7), DurationMinutes: 20, CaloriesBurned: 80},
	}
	for i := range entries {
		if err := ex.InsertExercise(ctx, &entries[i]); err != nil {
			t.Fatalf("InsertExercise: %v", err)
		}
	}

	from, to := day(10, 0), day(11, 0)
	minutes, err := ex.SumDurationInRange(ctx, from, to)
	if err != nil || minutes != 75 {
		t.Errorf("minutes = %d, %v; want 75", minutes, err)
	}
	kcal, err := ex.SumCaloriesBurnedInRange(ctx, from, to)
	if err != nil || kcal != 500 {
		t.Errorf("kcal = %v, %v; want 500", kcal, err)
	}
	n, err := ex.CountExercisesInRange(ctx, from, to)
	if err != nil || n != 2 {
		t.Errorf("count = %d, %v; want 2", n, err)
	}

	cardio, err := ex.ListExercisesByCategory(ctx, "cardio")
	if err != nil || len(cardio) != 2 {
		t.Fatalf("cardio = %v, %v", cardio, err)
	}
	if cardio[0].Name != "Walk" {
		t.Errorf("first cardio = %q, want newest (Walk)", cardio[0].Name)
	}

	empty, err := ex.SumDurationInRange(ctx, day(20, 0), day(21, 0))
	if err != nil || empty != 0 {
		t.Errorf("empty range = %d, %v", empty, err)
	}
}

func testWaterByDate(t *testing.T, s storage.Store) {
	ctx := context.Background()
	w := s.Water()
	for i, h := range []int{8, 12, 16} {
		e := &storage.WaterEntry{Amount: float64(8 * (i + 1)), Unit: "oz", Timestamp: day(10, h)}
		if err := w.InsertWater(ctx, e); err != nil {
			t.Fatalf("InsertWater: %v", err)
		}
	}
	list, err := w.ListWaterByDate(ctx, day(10, 0))
	if err != nil || len(list) != 3 {
		t.Fatalf("ListWaterByDate = %v, %v", list, err)
	}
	if list[0].Timestamp.Hour() != 16 {
		t.Errorf("first hour = %d, want 16 (newest first)", list[0].Timestamp.Hour())
	}
	sum, err := w.SumWaterForDate(ctx, day(10, 0))
	if err != nil || sum != 48 {
		t.Errorf("sum = %v, %v; want 48", sum, err)
	}
	if err := w.DeleteWaterForDate(ctx, day(10, 0)); err != nil {
		t.Fatalf("DeleteWaterForDate: %v", err)
	}
	sum, _ = w.SumWaterForDate(ctx, day(10, 0))
	if sum != 0 {
		t.Errorf("sum after delete = %v", sum)
	}
}

func testSupplementNames(t *testing.T, s storage.Store) {
	ctx := context.Background()
	for _, name := range []string{"Vitamin D", "Fish Oil", "Vitamin D"} {
		e := &storage.SupplementEntry{
			Name:      name,
			Date:      day(10, 9),
			Nutrients: map[string]float64{"vitamin_d": 25},
		}
		if err := s.Supplements().InsertSupplement(ctx, e); err != nil {
			t.Fatalf("InsertSupplement: %v", err)
		}
	}
	names, err := s.Supplements().DistinctSupplementNames(ctx)
	if err != nil {
		t.Fatalf("DistinctSupplementNames: %v", err)
	}
	if len(names) != 2 || names[0] != "Fish Oil" || names[1] != "Vitamin D" {
		t.Errorf("names = %v", names)
	}
	list, err := s.Supplements().ListSupplementsByDate(ctx, day(10, 0))
	if err != nil || len(list) != 3 {
		t.Fatalf("ListSupplementsByDate = %d, %v", len(list), err)
	}
	if list[0].Nutrients["vitamin_d"] != 25 {
		t.Errorf("nutrients = %v", list[0].Nutrients)
	}
}

func testUnencodableValues(t *testing.T, s storage.Store) {
	ctx := context.Background()
	sup := s.Supplements()

	good := &storage.SupplementEntry{Name: "Vitamin D", Date: day(12, 8), Nutrients: map[string]float64{"vitamin_d": 25}}
	if err := sup.InsertSupplement(ctx, good); err != nil {
		t.Fatalf("InsertSupplement: %v", err)
	}
	for _, key := range []string{"EPA:DHA", "omega;3", ""} {
		bad := &storage.SupplementEntry{Name: "Fish Oil", Date: day(12, 9), Nutrients: map[string]float64{key: 600}}
		if err := sup.InsertSupplement(ctx, bad); !errors.Is(err, codec.ErrUnencodable) {
			t.Errorf("InsertSupplement key %q: expected ErrUnencodable, got %v", key, err)
		}
	}
	good.Nutrients = map[string]float64{"EPA:DHA": 1}
	if err := sup.UpdateSupplement(ctx, good); !errors.Is(err, codec.ErrUnencodable) {
		t.Errorf("UpdateSupplement: expected ErrUnencodable, got %v", err)
	}
	list, err := sup.ListSupplementsByDate(ctx, day(12, 0))
	if err != nil || len(list) != 1 {
		t.Fatalf("ListSupplementsByDate = %v, %v", list, err)
	}
	if list[0].Nutrients["vitamin_d"] != 25 {
		t.Errorf("stored nutrients changed: %v", list[0].Nutrients)
	}

	r := &storage.Recipe{Name: "Toast", Servings: 1, Ingredients: []string{"a|", "|b"}}
	if err := s.Recipes().SaveRecipe(ctx, r); !errors.Is(err, codec.ErrUnencodable) {
		t.Errorf("SaveRecipe: expected ErrUnencodable, got %v", err)
	}
	gl := &storage.GroceryList{Name: "Week", Items: []string{""}}
	if err := s.GroceryLists().InsertGroceryList(ctx, gl); !errors.Is(err, codec.ErrUnencodable) {
		t.Errorf("InsertGroceryList: expected ErrUnencodable, got %v", err)
	}
	recipes, err := s.Recipes().ListRecipes(ctx)
	if err != nil || len(recipes) != 0 {
		t.Errorf("ListRecipes = %v, %v", recipes, err)
	}
}

func testLatestWeight(t *testing.T, s storage.Store) {
	ctx := context.Background()
	w := s.Weights()

	latest, err := w.LatestWeight(ctx)
	if err != nil || latest != nil {
		t.Fatalf("empty LatestWeight = %v, %v", latest, err)
	}

	entries := []storage.WeightEntry{
		{Weight: 80, Date: day(1, 0), Timestamp: day(1, 7)},
		{Weight: 79, Date: day(5, 0), Timestamp: day(5, 7)},
		{Weight: 78.5, Date: day(5, 0), Timestamp: day(5, 20)},
		{Weight: 81, Date: day(3, 0), Timestamp: day(3, 7)},
	}
	for i := range entries {
		if err := w.InsertWeight(ctx, &entries[i]); err != nil {
			t.Fatalf("InsertWeight: %v", err)
		}
	}

	latest, err = w.LatestWeight(ctx)
	if err != nil || latest == nil {
		t.Fatalf("LatestWeight = %v, %v", latest, err)
	}
	if latest.Weight != 78.5 {
		t.Errorf("latest = %v, want 78.5", latest.Weight)
	}

	// insertion order decides a same-day tie even against an earlier timestamp
	early := &storage.WeightEntry{Weight: 78, Date: day(5, 0), Timestamp: day(5, 6)}
	if err := w.InsertWeight(ctx, early); err != nil {
		t.Fatalf("InsertWeight: %v", err)
	}
	latest, err = w.LatestWeight(ctx)
	if err != nil || latest == nil || latest.Weight != 78 {
		t.Errorf("latest after earlier-timestamp insert = %v, %v; want 78", latest, err)
	}
	onDay5, err := w.WeightOnDate(ctx, day(5, 12))
	if err != nil || onDay5 == nil || onDay5.Weight != 78 {
		t.Errorf("WeightOnDate day 5 = %v, %v; want 78", onDay5, err)
	}
	early.Notes = "edited"
	if err := w.UpdateWeight(ctx, early); err != nil {
		t.Fatalf("UpdateWeight: %v", err)
	}
	if latest, _ = w.LatestWeight(ctx); latest == nil || latest.ID != early.ID {
		t.Errorf("update moved the entry: latest = %v", latest)
	}
	if err := w.DeleteWeight(ctx, early.ID); err != nil {
		t.Fatalf("DeleteWeight: %v", err)
	}

	onDay, err := w.WeightOnDate(ctx, day(3, 12))
	if err != nil || onDay == nil || onDay.Weight != 81 {
		t.Errorf("WeightOnDate = %v, %v", onDay, err)
	}
	none, err := w.WeightOnDate(ctx, day(20, 12))
	if err != nil || none != nil {
		t.Errorf("WeightOnDate empty = %v, %v", none, err)
	}

	all, err := w.ListWeights(ctx)
	if err != nil || len(all) != 4 {
		t.Fatalf("ListWeights = %d, %v", len(all), err)
	}
	if all[len(all)-1].Weight != 80 {
		t.Errorf("oldest = %v, want 80 last", all[len(all)-1].Weight)
	}
}

func testCustomFoodBarcode(t *testing.T, s storage.Store) {
	ctx := context.Background()
	cf := s.CustomFoods()

	food := &storage.CustomFood{Name: "Protein Bar", Brand: "Acme", Barcode: "0123456789012", Calories: 210, Protein: 20}
	if err := cf.InsertCustomFood(ctx, food); err != nil {
		t.Fatalf("InsertCustomFood: %v", err)
	}
	got, err := cf.GetCustomFoodByBarcode(ctx, "0123456789012")
	if err != nil || got == nil || got.ID != food.ID {
		t.Fatalf("GetCustomFoodByBarcode = %v, %v", got, err)
	}
	missing, err := cf.GetCustomFoodByBarcode(ctx, "999")
	if err != nil || missing != nil {
		t.Errorf("unknown barcode = %v, %v", missing, err)
	}
	found, err := cf.SearchCustomFoods(ctx, "acme")
	if err != nil || len(found) != 1 {
		t.Errorf("search by brand = %v, %v", found, err)
	}
}

func testRecipes(t *testing.T, s storage.Store) {
	ctx := context.Background()
	rs := s.Recipes()

	r := &storage.Recipe{
		Name:         "Shakshuka",
		Description:  "Eggs poached in tomato sauce",
		Category:     "Breakfast",
		Servings:     2,
		Calories:     320,
		Ingredients:  []string{"4 eggs", "1 can tomatoes"},
		Instructions: []string{"Simmer sauce", "Add eggs"},
		Tags:         []string{"vegetarian"},
		Source:       storage.RecipeSourceCustom,
	}
	if err := rs.SaveRecipe(ctx, r); err != nil {
		t.Fatalf("SaveRecipe: %v", err)
	}
	r.Calories = 350
	if err := rs.SaveRecipe(ctx, r); err != nil {
		t.Fatalf("SaveRecipe replace: %v", err)
	}

	all, err := rs.ListRecipes(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListRecipes = %v, %v", all, err)
	}
	if all[0].Calories != 350 || len(all[0].Ingredients) != 2 || all[0].Instructions[1] != "Add eggs" {
		t.Errorf("unexpected recipe %+v", all[0])
	}

	if err := rs.SetRecipeFavorite(ctx, r.ID, true); err != nil {
		t.Fatalf("SetRecipeFavorite: %v", err)
	}
	favs, err := rs.ListFavoriteRecipes(ctx)
	if err != nil || len(favs) != 1 {
		t.Errorf("favorites = %v, %v", favs, err)
	}
	byTag, err := rs.SearchRecipes(ctx, "VEGETARIAN")
	if err != nil || len(byTag) != 1 {
		t.Errorf("search by tag = %v, %v", byTag, err)
	}
	byCat, err := rs.ListRecipesByCategory(ctx, "breakfast")
	if err != nil || len(byCat) != 1 {
		t.Errorf("by category = %v, %v", byCat, err)
	}
}

func testMealPlans(t *testing.T, s storage.Store) {
	ctx := context.Background()
	recipeID := uuid.New()
	plans := []storage.MealPlan{
		{Date: day(10, 18), MealType: storage.MealDinner, Name: "Pasta", Servings: 1, Calories: 600},
		{Date: day(10, 8), MealType: storage.MealBreakfast, Name: "Eggs", RecipeID: &recipeID, Servings: 1, Calories: 300},
	}
	for i := range plans {
		if err := s.MealPlans().InsertMealPlan(ctx, &plans[i]); err != nil {
			t.Fatalf("InsertMealPlan: %v", err)
		}
	}
	list, err := s.MealPlans().ListMealPlansByDate(ctx, day(10, 0))
	if err != nil || len(list) != 2 {
		t.Fatalf("ListMealPlansByDate = %v, %v", list, err)
	}
	if list[0].Name != "Eggs" {
		t.Errorf("first = %q, want oldest (Eggs)", list[0].Name)
	}
	if list[0].RecipeID == nil || *list[0].RecipeID != recipeID {
		t.Errorf("recipe id = %v", list[0].RecipeID)
	}
	if list[1].RecipeID != nil {
		t.Errorf("expected nil recipe id, got %v", list[1].RecipeID)
	}

	gl := &storage.GroceryList{Name: "Week", Items: []string{"eggs", "milk"}}
	if err := s.GroceryLists().InsertGroceryList(ctx, gl); err != nil {
		t.Fatalf("InsertGroceryList: %v", err)
	}
	gl.IsCompleted = true
	if err := s.GroceryLists().UpdateGroceryList(ctx, gl); err != nil {
		t.Fatalf("UpdateGroceryList: %v", err)
	}
	open, _ := s.GroceryLists().ListGroceryLists(ctx, false)
	done, _ := s.GroceryLists().ListGroceryLists(ctx, true)
	if len(open) != 0 || len(done) != 1 || len(done[0].Items) != 2 {
		t.Errorf("open = %v, done = %v", open, done)
	}
}

func testGoals(t *testing.T, s storage.Store) {
	ctx := context.Background()
	goals := s.Goals()

	deadline := day(30, 0)
	g := &storage.Goal{
		Type:        storage.GoalWater,
		Title:       "Hydrate",
		TargetValue: 64,
		Unit:        "oz",
		StartDate:   day(1, 0),
		Deadline:    &deadline,
		IsActive:    true,
	}
	if err := goals.SaveGoal(ctx, g); err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}
	n, err := goals.CountActiveGoals(ctx)
	if err != nil || n != 1 {
		t.Fatalf("CountActiveGoals = %d, %v", n, err)
	}

	completed := day(12, 0)
	g.CurrentValue = 64
	g.Progress = 100
	g.IsCompleted = true
	g.CompletedDate = &completed
	if err := goals.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}

	active, _ := goals.ListActiveGoals(ctx)
	if len(active) != 0 {
		t.Errorf("active = %v, want none", active)
	}
	done, err := goals.ListCompletedGoals(ctx)
	if err != nil || len(done) != 1 {
		t.Fatalf("ListCompletedGoals = %v, %v", done, err)
	}
	if done[0].CompletedDate == nil || !done[0].CompletedDate.Equal(completed) {
		t.Errorf("completed date = %v", done[0].CompletedDate)
	}
	if done[0].Deadline == nil || !done[0].Deadline.Equal(deadline) {
		t.Errorf("deadline = %v", done[0].Deadline)
	}

	byType, _ := goals.ListGoalsByType(ctx, storage.GoalWater)
	if len(byType) != 1 {
		t.Errorf("by type = %v", byType)
	}
	if err := goals.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	got, err := goals.GetGoal(ctx, g.ID)
	if err != nil || got != nil {
		t.Errorf("after delete = %v, %v", got, err)
	}
}

func testProfile(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p, err := s.Profile().GetProfile(ctx)
	if err != nil || p != nil {
		t.Fatalf("unsaved profile = %v, %v", p, err)
	}

	profile := storage.DefaultProfile()
	profile.Name = "Sam"
	if err := s.Profile().SaveProfile(ctx, &profile); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	profile.WeightKg = 72
	profile.ID = 42
	if err := s.Profile().SaveProfile(ctx, &profile); err != nil {
		t.Fatalf("SaveProfile again: %v", err)
	}

	p, err = s.Profile().GetProfile(ctx)
	if err != nil || p == nil {
		t.Fatalf("GetProfile = %v, %v", p, err)
	}
	if p.ID != storage.ProfileID || p.Name != "Sam" || p.WeightKg != 72 || p.BMRFormula != "mifflin" {
		t.Errorf("profile = %+v", p)
	}
}

func testMetaFlags(t *testing.T, s storage.Store) {
	ctx := context.Background()
	v, err := s.Meta().GetFlag(ctx, "seed.sample_data_loaded")
	if err != nil || v {
		t.Fatalf("unset flag = %v, %v", v, err)
	}
	if err := s.Meta().SetFlag(ctx, "seed.sample_data_loaded", true); err != nil {
		t.Fatalf("SetFlag: %v", err)
	}
	if err := s.Meta().SetFlag(ctx, "seed.sample_data_loaded", true); err != nil {
		t.Fatalf("SetFlag twice: %v", err)
	}
	v, _ = s.Meta().GetFlag(ctx, "seed.sample_data_loaded")
	if !v {
		t.Error("flag not persisted")
	}
}

func testExports(t *testing.T, s storage.Store) {
	ctx := context.Background()
	key := "exports/2024-03-01_2024-03-07.pdf"
	older := &storage.ExportMeta{
		Format:    storage.ExportCSV,
		FromDate:  day(1, 0),
		ToDate:    day(7, 0),
		SizeBytes: 3,
		Data:      []byte("a,b"),
		CreatedBy: "sam",
		CreatedAt: day(8, 9),
	}
	newer := &storage.ExportMeta{
		Format:    storage.ExportPDF,
		FromDate:  day(1, 0),
		ToDate:    day(7, 0),
		ObjectKey: &key,
		SizeBytes: 1024,
		CreatedAt: day(8, 10),
	}
	for _, e := range []*storage.ExportMeta{older, newer} {
		if err := s.Exports().InsertExport(ctx, e); err != nil {
			t.Fatalf("InsertExport: %v", err)
		}
	}

	got, err := s.Exports().GetExport(ctx, older.ID)
	if err != nil || got == nil {
		t.Fatalf("GetExport = %v, %v", got, err)
	}
	if string(got.Data) != "a,b" || got.ObjectKey != nil || !got.FromDate.Equal(day(1, 0)) || got.CreatedBy != "sam" {
		t.Errorf("export = %+v", got)
	}

	list, err := s.Exports().ListExports(ctx, 10, 0)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListExports = %d, %v", len(list), err)
	}
	if list[0].ID != newer.ID || list[0].ObjectKey == nil || *list[0].ObjectKey != key {
		t.Errorf("expected newest pdf first, got %+v", list[0])
	}
	page, _ := s.Exports().ListExports(ctx, 1, 1)
	if len(page) != 1 || page[0].ID != older.ID {
		t.Errorf("second page = %+v", page)
	}

	if err := s.Exports().DeleteExport(ctx, older.ID); err != nil {
		t.Fatalf("DeleteExport: %v", err)
	}
	if got, _ := s.Exports().GetExport(ctx, older.ID); got != nil {
		t.Errorf("export still present after delete")
	}
	if err := s.Exports().DeleteExport(ctx, uuid.New()); err != nil {
		t.Errorf("delete missing export: %v", err)
	}
}
