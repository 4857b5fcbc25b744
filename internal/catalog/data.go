package catalog

import "github.com/sakif/sportify/internal/model"

var mockSportsData = []model.SportItem{
	{
		ID:          "1",
		Title:       "Lakers vs Warriors",
		Description: "NBA Finals - Game 7. An epic showdown between two legendary teams.",
		Image:       "🏀",
		Status:      model.StatusUpcoming,
		Category:    model.CategoryMatch,
		Date:        "2025-12-15",
	},
	{
		ID:          "2",
		Title:       "Lionel Messi",
		Description: "Football legend. 8-time Ballon d'Or winner and World Cup champion.",
		Image:       "⚽",
		Status:      model.StatusActive,
		Category:    model.CategoryPlayer,
	},
	{
		ID:          "3",
		Title:       "Manchester United",
		Description: "One of the most successful football clubs in English football history.",
		Image:       "🔴",
		Status:      model.StatusActive,
		Category:    model.CategoryTeam,
	},
	{
		ID:          "4",
		Title:       "Wimbledon Finals",
		Description: "Tennis Grand Slam Championship. The oldest tennis tournament in the world.",
		Image:       "🎾",
		Status:      model.StatusUpcoming,
		Category:    model.CategoryMatch,
		Date:        "2025-07-14",
	},
	{
		ID:          "5",
		Title:       "Serena Williams",
		Description: "Tennis icon with 23 Grand Slam singles titles.",
		Image:       "🎾",
		Status:      model.StatusActive,
		Category:    model.CategoryPlayer,
	},
	{
		ID:          "6",
		Title:       "Super Bowl LVIII",
		Description: "NFL Championship Game. The biggest sporting event in America.",
		Image:       "🏈",
		Status:      model.StatusUpcoming,
		Category:    model.CategoryMatch,
		Date:        "2026-02-09",
	},
	{
		ID:          "7",
		Title:       "Cristiano Ronaldo",
		Description: "Portuguese football superstar. All-time top scorer in Champions League.",
		Image:       "⚽",
		Status:      model.StatusActive,
		Category:    model.CategoryPlayer,
	},
	{
		ID:          "8",
		Title:       "Golden State Warriors",
		Description: "NBA Champions with a dynasty of success in recent years.",
		Image:       "🏀",
		Status:      model.StatusActive,
		Category:    model.CategoryTeam,
	},
	{
		ID:          "9",
		Title:       "Formula 1 - Monaco GP",
		Description: "The most prestigious race in Formula 1 calendar.",
		Image:       "🏎️",
		Status:      model.StatusUpcoming,
		Category:    model.CategoryMatch,
		Date:        "2025-05-25",
	},
	{
		ID:          "10",
		Title:       "Lewis Hamilton",
		Description: "7-time Formula 1 World Champion. One of the greatest drivers ever.",
		Image:       "🏎️",
		Status:      model.StatusActive,
		Category:    model.CategoryPlayer,
	},
}
