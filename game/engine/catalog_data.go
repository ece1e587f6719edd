package engine

// defaultLocations returns the authored table of the standard map
func defaultLocations() []Location {
	return []Location{
		{Name: "ミニュアス", Position: Vec3{8, 8, 8}, Neighbors: []int{1, 2}, Volume: Large, MapX: 56, MapY: 392},
		{Name: "キュクレウス", Position: Vec3{8, 16, 24}, Neighbors: []int{0, 2, 3}, Volume: Large, MapX: 56, MapY: 344},
		{Name: "ヒュプノイア", Position: Vec3{16, 8, 16}, Neighbors: []int{0, 1, 4, 16}, Volume: Large, MapX: 104, MapY: 360},
		{Name: "ニュクテーナ", Position: Vec3{8, 32, 32}, Neighbors: []int{1, 4, 12}, Volume: Medium, MapX: 72, MapY: 296},
		{Name: "コリューバスト", Position: Vec3{24, 24, 32}, Neighbors: []int{2, 3, 6, 10}, Volume: Large, MapX: 152, MapY: 280},
		{Name: "マル・ペッサ", Position: Vec3{32, 8, 40}, Neighbors: []int{6, 7, 10, 11}, Volume: Tiny, MapX: 200, MapY: 216},
		{Name: "ドリュアント", Position: Vec3{16, 56, 48}, Neighbors: []int{4, 5, 9, 12}, Volume: Medium, MapX: 104, MapY: 216},
		{Name: "ペルセポネ", Position: Vec3{40, 40, 40}, Neighbors: []int{5, 9, 20, 21}, Volume: Medium, MapX: 232, MapY: 168},
		{Name: "ラグプール", Position: Vec3{64, 16, 24}, Neighbors: []int{10, 16, 22, 24}, Volume: Large, MapX: 280, MapY: 312},
		{Name: "ライガール", Position: Vec3{32, 64, 80}, Neighbors: []int{6, 7, 13}, Volume: Small, MapX: 168, MapY: 168},
		{Name: "トリプラ", Position: Vec3{56, 56, 32}, Neighbors: []int{4, 5, 8}, Volume: Medium, MapX: 232, MapY: 280},
		{Name: "ダゴン", Position: Vec3{80, 24, 48}, Neighbors: []int{5, 18, 21}, Volume: Large, MapX: 328, MapY: 248},
		{Name: "ドーリア", Position: Vec3{8, 120, 56}, Neighbors: []int{3, 6, 13}, Volume: Tiny, MapX: 56, MapY: 248},
		{Name: "バンフリート", Position: Vec3{8, 104, 56}, Neighbors: []int{9, 12}, Volume: Tiny, MapX: 56, MapY: 184},
		{Name: "マル・アデッタ", Position: Vec3{120, 16, 8}, Neighbors: []int{27, 28}, Volume: Large, MapX: 424, MapY: 392},
		{Name: "レグニツァ", Position: Vec3{120, 8, 72}, Neighbors: []int{22, 27, 29}, Volume: Large, MapX: 440, MapY: 296},
		{Name: "バーラト", Position: Vec3{32, 104, 24}, Neighbors: []int{2, 8, 24}, Volume: Tiny, MapX: 184, MapY: 328},
		{Name: "アスターテ", Position: Vec3{48, 88, 112}, Neighbors: []int{20, 26}, Volume: Small, MapX: 248, MapY: 40},
		{Name: "メルカルト", Position: Vec3{88, 48, 64}, Neighbors: []int{11, 19, 22, 29}, Volume: Medium, MapX: 376, MapY: 216},
		{Name: "ネプティス", Position: Vec3{104, 32, 88}, Neighbors: []int{18, 21, 25, 30}, Volume: Medium, MapX: 376, MapY: 168},
		{Name: "カッファー", Position: Vec3{48, 112, 88}, Neighbors: []int{7, 17, 23}, Volume: Tiny, MapX: 248, MapY: 104},
		{Name: "バルメレンド", Position: Vec3{80, 80, 72}, Neighbors: []int{7, 11, 19, 23}, Volume: Small, MapX: 328, MapY: 168},
		{Name: "シャンプール", Position: Vec3{112, 48, 56}, Neighbors: []int{8, 15, 18, 28}, Volume: Medium, MapX: 392, MapY: 328},
		{Name: "ポレビト", Position: Vec3{72, 112, 80}, Neighbors: []int{20, 21, 25}, Volume: Tiny, MapX: 296, MapY: 120},
		{Name: "ランテマリオ", Position: Vec3{96, 96, 24}, Neighbors: []int{8, 16, 28}, Volume: Tiny, MapX: 312, MapY: 376},
		{Name: "エリューセラ", Position: Vec3{112, 72, 96}, Neighbors: []int{19, 23, 26}, Volume: Small, MapX: 392, MapY: 120},
		{Name: "リオベルデ", Position: Vec3{96, 120, 104}, Neighbors: []int{17, 25, 31}, Volume: Tiny, MapX: 360, MapY: 72},
		{Name: "ガンダルバ", Position: Vec3{120, 96, 32}, Neighbors: []int{14, 15}, Volume: Tiny, MapX: 440, MapY: 360},
		{Name: "エル・ファシル", Position: Vec3{112, 120, 48}, Neighbors: []int{14, 22, 24}, Volume: Tiny, MapX: 376, MapY: 392},
		{Name: "バーミリオン", Position: Vec3{112, 112, 88}, Neighbors: []int{15, 18, 30}, Volume: Tiny, MapX: 424, MapY: 232},
		{Name: "リューカス", Position: Vec3{120, 112, 104}, Neighbors: []int{19, 29, 31}, Volume: Tiny, MapX: 424, MapY: 168},
		{Name: "ハイネセン", Position: Vec3{120, 120, 120}, Neighbors: []int{26, 30}, Volume: Tiny, MapX: 424, MapY: 40},
	}
}
