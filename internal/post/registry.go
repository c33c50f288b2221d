package post

import "marketbot/internal/model"

var Tickers = []model.Ticker{
	{Description: "NASDAQ", Symbol: "^IXIC"},
	{Description: "Dow", Symbol: "^DJI"},
	{Description: "S&P 500", Symbol: "^GSPC"},
	{Description: "Nikkei", Symbol: "^N225"},
	{Description: "FTSE", Symbol: "^FTSE"},
	{Description: "Capital One Stock", Symbol: "COF"},
}

var Ups = []string{
	"soars",
	"skyrockets",
	"captapults",
	"zooms",
	"jumps",
	"shoots up",
}

var Downs = []string{
	"plummets",
	"tanks",
	"in free fall",
	"dives",
	"plunges",
	"scrambling",
}
