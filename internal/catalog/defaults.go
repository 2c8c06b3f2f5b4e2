package catalog

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Backgrounds: []Background{
			{
				ID:          "sunrise",
				Label:       "새벽 빛",
				Description: "따뜻한 하루를 여는 그라데이션",
				Gradient:    []string{"#FED7AA", "#FECDD3", "#E9D5FF"},
				TextColor:   "#111827",
			},
			{
				ID:          "linen",
				Label:       "리넨 텍스처",
				Description: "차분한 캔버스 느낌의 배경",
				Gradient:    []string{"#F5F1E6"},
				TextColor:   "#1F2937",
				BorderColor: "#D1D5DB",
			},
			{
				ID:          "night",
				Label:       "밤의 노트",
				Description: "깊고 선명한 대비감",
				Gradient:    []string{"#0F172A", "#312E81", "#581C87"},
				TextColor:   "#FFFFFF",
			},
			{
				ID:          "mint",
				Label:       "새벽 안개",
				Description: "산뜻한 파스텔 톤",
				Gradient:    []string{"#99F6E4", "#BAE6FD", "#A7F3D0"},
				TextColor:   "#111827",
			},
		},
		Templates: []Template{
			{
				ID:              "centered",
				Label:           "중앙 정렬",
				Description:     "짧은 문장에 어울리는 균형 잡힌 구성",
				Align:           AlignCenter,
				Justify:         JustifyCenter,
				Gap:             6,
				AccentPlacement: PlacementBottom,
			},
			{
				ID:              "journal",
				Label:           "저널 노트",
				Description:     "왼쪽 정렬과 여백을 살린 노트 느낌",
				Align:           AlignStart,
				Justify:         JustifyBetween,
				Gap:             8,
				AccentPlacement: PlacementTop,
			},
			{
				ID:              "focus-line",
				Label:           "포커스 라인",
				Description:     "세로 라인으로 시선을 모으는 레이아웃",
				Align:           AlignStart,
				Justify:         JustifyBetween,
				Gap:             6,
				InsetLeft:       4,
				AccentPlacement: PlacementLeft,
			},
		},
		Ratios: []Ratio{
			{ID: "story", Label: "배경커버", AspectRatio: "9 / 16", Description: "스토리, 릴스에 맞는 세로 비율."},
			{ID: "square", Label: "1:1", AspectRatio: "1", Description: "피드나 썸네일에 활용하기 좋아요."},
			{ID: "portrait", Label: "4:5", AspectRatio: "4 / 5", Description: "인스타그램 피드 최적화 비율."},
		},
		Accents: []string{"#F97316", "#E11D48", "#0EA5E9", "#14B8A6", "#6366F1", "#334155"},
		Steps: []Step{
			{ID: "background", Label: "배경", Helper: "카드에 어울리는 분위기를 골라보세요."},
			{ID: "template", Label: "템플릿", Helper: "문장을 담을 레이아웃을 선택할 수 있어요."},
			{ID: "text", Label: "텍스트", Helper: "명언과 작가를 직접 편집해보세요."},
			{ID: "detail", Label: "디테일", Helper: "강조 색상과 표시 옵션을 조정해요."},
			{ID: "complete", Label: "완성", Helper: "완성된 카드를 확인하고 내보내세요."},
		},
	}
}
