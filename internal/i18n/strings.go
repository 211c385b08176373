package i18n

var translations = map[string]map[string]string{
	English: {
		"app.title":       "SHIMTEO",
		"nav.home":        "Shelters",
		"nav.search":      "Search",
		"nav.helper":      "Symptom helper",
		"nav.hospital":    "Hospitals",
		"nav.settings":    "Settings",
		"common.loading":  "Loading...",
		"common.retry":    "Retry",
		"common.back":     "Back",
		"common.yes":      "Yes",
		"common.no":       "No",
		"common.quit":     "Quit",
		"common.select":   "Select",
		"common.delete":   "Delete",
		"common.on":       "On",
		"common.off":      "Off",
		"common.error":    "Error",
		"season.HEAT":     "Heat shelters",
		"season.COLD":     "Cold shelters",
		"home.title":      "Nearby shelters",
		"home.locating":   "Finding your location...",
		"home.default":    "Location unavailable, showing the default area",
		"home.none":       "No shelters nearby",
		"home.failed":     "Could not load nearby shelters.",
		"home.selected":   "Selected shelter",
		"search.title":    "Search shelters",
		"search.hint":     "Search shelters by name or address.",
		"search.none":     "No results",
		"search.failed":   "Search failed. Please try again.",
		"search.recent":   "Recent searches",
		"search.no_recent": "No recent searches",
		"search.detail_failed": "Could not load shelter information.",
		"helper.title":         "Self-assessment",
		"helper.intro":         "Answer a few yes/no questions to check for heat or cold illness.",
		"helper.start":         "Start",
		"helper.mode":          "How would you like to proceed?",
		"helper.mode.voice":    "Voice guided",
		"helper.mode.manual":   "Read myself",
		"helper.progress":      "Question %d of %d",
		"helper.empty":         "There are no questions for this season right now.",
		"helper.submitting":    "Analyzing your answers...",
		"helper.catalog_failed": "Could not load the questions.",
		"helper.submit_failed":  "Could not submit your answers.",
		"result.title":          "Assessment result",
		"result.guidelines":     "View guidelines",
		"result.hospitals":      "Find nearby hospitals",
		"result.restart":        "Start over",
		"guide.title.general":   "Illness types and responses",
		"guide.title.suspected": "Your self-assessment guidance",
		"guide.ai":              "AI assessment",
		"guide.ai_summary":      "Summary",
		"guide.ai_detail":       "Full answer",
		"guide.definition":      "Definition",
		"guide.symptoms":        "Symptoms",
		"guide.advice":          "What to do",
		"guide.failed":          "Could not load the guidance.",
		"guide.return":          "Return to start",
		"hospital.title":        "Nearby hospitals",
		"hospital.none":         "No hospitals nearby",
		"hospital.er":           "ER",
		"hospital.failed":       "Could not load hospitals.",
		"hospital.search":       "Search hospitals",
		"settings.title":        "Settings",
		"settings.map":          "Map",
		"settings.app":          "App",
		"settings.text_size":    "Text size",
		"settings.text_size.default": "Default",
		"settings.text_size.large":   "Large",
		"settings.senior":            "Show senior-only facilities",
		"settings.cold":              "Switch to cold shelters",
		"settings.language":          "Language",
		"settings.auto_locate":       "Locate on launch",
		"common.clear":               "Clear",
		"common.pause":               "Pause",
		"common.search":              "Search",
		"common.nav":                 "Move",
		"common.tabs":                "Tabs",
		"home.relocate":              "Locate again",
		"home.expand":                "Expand",
		"helper.answered":            "Previous answer",
		"helper.voice_on":            "Narration on",
		"helper.voice_paused":        "Narration paused",
		"helper.not_found":           "No assessment result yet. Start the self-assessment first.",
	},
	Korean: {
		"app.title":       "쉼터",
		"nav.home":        "쉼터",
		"nav.search":      "검색",
		"nav.helper":      "증상도우미",
		"nav.hospital":    "병원",
		"nav.settings":    "설정",
		"common.loading":  "정보를 불러오는 중...",
		"common.retry":    "다시 시도",
		"common.back":     "뒤로",
		"common.yes":      "예",
		"common.no":       "아니오",
		"common.quit":     "종료",
		"common.select":   "선택",
		"common.delete":   "삭제",
		"common.on":       "켜짐",
		"common.off":      "꺼짐",
		"common.error":    "오류",
		"season.HEAT":     "무더위쉼터",
		"season.COLD":     "한파쉼터",
		"home.title":      "내 주변 쉼터",
		"home.locating":   "현재 위치를 찾는 중...",
		"home.default":    "위치를 확인할 수 없어 기본 지역을 표시합니다",
		"home.none":       "주변에 쉼터가 없습니다",
		"home.failed":     "주변 쉼터를 불러오지 못했습니다.",
		"home.selected":   "선택한 쉼터",
		"search.title":    "쉼터 검색",
		"search.hint":     "쉼터의 이름, 주소를 검색하세요.",
		"search.none":     "검색 결과가 없습니다",
		"search.failed":   "검색에 실패했습니다. 다시 시도해주세요.",
		"search.recent":   "최근 검색",
		"search.no_recent": "최근 검색 기록이 없습니다",
		"search.detail_failed": "쉼터 정보를 불러오는데 실패했습니다.",
		"helper.title":         "자가진단",
		"helper.intro":         "몇 가지 질문에 예/아니오로 답하고 온열·한랭 질환 여부를 확인하세요.",
		"helper.start":         "시작하기",
		"helper.mode":          "어떤 방식으로 진행할까요?",
		"helper.mode.voice":    "음성 안내",
		"helper.mode.manual":   "직접 읽기",
		"helper.progress":      "%d / %d 번째 질문",
		"helper.empty":         "현재 이 계절에 대한 질문이 없습니다.",
		"helper.submitting":    "응답을 분석하는 중...",
		"helper.catalog_failed": "질문을 불러오지 못했습니다.",
		"helper.submit_failed":  "응답을 제출하지 못했습니다.",
		"result.title":          "진단 결과",
		"result.guidelines":     "대처 방안 확인하기",
		"result.hospitals":      "내 주변 병원 찾기",
		"result.restart":        "다시 진단하기",
		"guide.title.general":   "온열질환 종류 및 대응법",
		"guide.title.suspected": "자가진단 결과 안내",
		"guide.ai":              "AI 진단",
		"guide.ai_summary":      "AI 프롬프트 답변 요약",
		"guide.ai_detail":       "AI 답변 전문",
		"guide.definition":      "정의",
		"guide.symptoms":        "증상",
		"guide.advice":          "대응법",
		"guide.failed":          "가이드 정보를 불러오는데 실패했습니다.",
		"guide.return":          "처음으로 돌아가기",
		"hospital.title":        "내 주변 병원",
		"hospital.none":         "주변에 병원이 없습니다",
		"hospital.er":           "응급실",
		"hospital.failed":       "병원 정보를 불러오지 못했습니다.",
		"hospital.search":       "병원 검색",
		"settings.title":        "설정",
		"settings.map":          "지도설정",
		"settings.app":          "앱 설정",
		"settings.text_size":    "글자 크기",
		"settings.text_size.default": "기본",
		"settings.text_size.large":   "크게",
		"settings.senior":            "특정인 이용 시설 표시",
		"settings.cold":              "한파쉼터 전환",
		"settings.language":          "언어",
		"settings.auto_locate":       "시작 시 내 위치 찾기",
		"common.clear":               "전체 삭제",
		"common.pause":               "일시정지",
		"common.search":              "검색",
		"common.nav":                 "이동",
		"common.tabs":                "탭",
		"home.relocate":              "위치 다시 찾기",
		"home.expand":                "펼치기",
		"helper.answered":            "이전 응답",
		"helper.voice_on":            "음성 안내 켜짐",
		"helper.voice_paused":        "음성 안내 일시정지",
		"helper.not_found":           "진단 결과가 없습니다. 자가진단을 먼저 진행해주세요.",
	},
	Japanese: {
		"nav.home":            "避難所",
		"nav.search":          "検索",
		"nav.helper":          "症状チェック",
		"nav.hospital":        "病院",
		"nav.settings":        "設定",
		"common.loading":      "読み込み中...",
		"common.retry":        "再試行",
		"common.yes":          "はい",
		"common.no":           "いいえ",
		"season.HEAT":         "暑さ避難所",
		"season.COLD":         "寒さ避難所",
		"helper.title":        "セルフチェック",
		"helper.mode.voice":   "音声ガイド",
		"helper.mode.manual":  "自分で読む",
		"guide.definition":    "定義",
		"guide.symptoms":      "症状",
		"guide.advice":        "対処法",
		"guide.return":        "最初に戻る",
		"settings.title":      "設定",
		"settings.text_size":  "文字サイズ",
		"settings.language":   "言語",
	},
	Vietnamese: {
		"nav.home":            "Nơi trú ẩn",
		"nav.search":          "Tìm kiếm",
		"nav.helper":          "Trợ giúp triệu chứng",
		"nav.hospital":        "Bệnh viện",
		"nav.settings":        "Cài đặt",
		"common.loading":      "Đang tải...",
		"common.retry":        "Thử lại",
		"common.yes":          "Có",
		"common.no":           "Không",
		"season.HEAT":         "Nơi tránh nóng",
		"season.COLD":         "Nơi tránh rét",
		"helper.title":        "Tự đánh giá",
		"helper.mode.voice":   "Hướng dẫn bằng giọng nói",
		"helper.mode.manual":  "Tự đọc",
		"guide.definition":    "Định nghĩa",
		"guide.symptoms":      "Triệu chứng",
		"guide.advice":        "Cách xử lý",
		"guide.return":        "Quay lại từ đầu",
		"settings.title":      "Cài đặt",
		"settings.text_size":  "Cỡ chữ",
		"settings.language":   "Ngôn ngữ",
	},
	Chinese: {
		"nav.home":            "避暑所",
		"nav.search":          "搜索",
		"nav.helper":          "症状助手",
		"nav.hospital":        "医院",
		"nav.settings":        "设置",
		"common.loading":      "加载中...",
		"common.retry":        "重试",
		"common.yes":          "是",
		"common.no":           "否",
		"season.HEAT":         "避暑所",
		"season.COLD":         "避寒所",
		"helper.title":        "自我诊断",
		"helper.mode.voice":   "语音引导",
		"helper.mode.manual":  "自己阅读",
		"guide.definition":    "定义",
		"guide.symptoms":      "症状",
		"guide.advice":        "应对方法",
		"guide.return":        "返回开始",
		"settings.title":      "设置",
		"settings.text_size":  "文字大小",
		"settings.language":   "语言",
	},
}
