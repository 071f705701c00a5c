package ingest

import "github.com/nicktill/heartbridge/pkg/health"

// Payloads as the Shortcuts app sends them.

func legacyTypicalInput() health.Payload {
	return health.Payload{
		"hrDates":  []any{"2019-12-16 08:24:36", "2019-12-16 09:32:17", "2019-12-16 14:53:35", "2019-12-16 16:13:35", "2019-12-16 19:23:28", "2019-12-16 23:56:25"},
		"hrValues": []any{"74", "83", "89", "157", "95", "80"},
	}
}

func legacyIncompleteInput() health.Payload {
	return health.Payload{
		"hrDates":  []any{"2019-12-16 08:24:36", "2019-12-16 14:53:35", "2019-12-16 16:13:35", "2019-12-16 19:23:28", "2019-12-16 23:56:25"},
		"hrValues": []any{"74", "83", "89", "157"},
	}
}

func heartRateTypicalInput() health.Payload {
	return health.Payload{
		"type":   "Heart Rate",
		"dates":  []any{"2019-12-16 08:24:36", "2019-12-16 09:32:17", "2019-12-16 14:53:35", "2019-12-16 16:13:35", "2019-12-16 19:23:28", "2019-12-16 23:56:25"},
		"values": []any{"74", "83", "89", "157", "95", "80"},
	}
}

func restingHeartRateInput() health.Payload {
	return health.Payload{
		"type":   "Resting Heart Rate",
		"dates":  []any{"2021-04-10 09:21:56", "2021-04-11 13:45:10", "2021-04-12 08:04:01"},
		"values": []any{"60", "59", "62"},
	}
}

func hrvInput() health.Payload {
	return health.Payload{
		"type":   "Heart Rate Variability",
		"dates":  []any{"2021-04-05 08:05:20", "2021-04-08 13:45:10", "2021-04-10 08:04:01"},
		"values": []any{"56.8018104501229", "55.24012710371946", "95.81946194801212"},
	}
}

func flightsInput() health.Payload {
	return health.Payload{
		"type":   "Flights Climbed",
		"dates":  []any{"2021-04-05 09:21:00", "2021-04-05 09:21:00", "2021-04-05 11:20:38"},
		"values": []any{"1", "1", "2"},
	}
}

func stepsInput() health.Payload {
	return health.Payload{
		"type":   "Steps",
		"dates":  []any{"2021-04-10 09:20:10", "2021-04-10 13:14:00", "2021-04-10 23:10:59"},
		"values": []any{"34", "50", "10"},
	}
}

func cyclingInput() health.Payload {
	return health.Payload{
		"type":   "Cycling Distance",
		"dates":  []any{"2021-04-13 23:29:00"},
		"values": []any{"15.4"},
	}
}

func heartRateOneItemInput() health.Payload {
	return health.Payload{
		"type":   "Heart Rate",
		"dates":  "2019-12-16 08:24:36",
		"values": "74",
	}
}

func genericInput() health.Payload {
	return health.Payload{
		"type":   "Memes Sent",
		"dates":  []any{"2021-04-13 23:29:00"},
		"values": []any{"90"},
	}
}
