package store

import (
	"fmt"

	"temperance/internal/model"
)

// seedPresets is the quick-entry starter set inserted into a fresh store.
var seedPresets = []model.Preset{
	{ID: "preset-convenience-coffee", Label: "コンビニコーヒー我慢", Amount: 150, Category: model.CategoryBeverage},
	{ID: "preset-energy-drink", Label: "エナジードリンク我慢", Amount: 200, Category: model.CategoryBeverage},
	{ID: "preset-lunch-bento", Label: "外食ランチを弁当に", Amount: 500, Category: model.CategoryFood},
	{ID: "preset-convenience-snack", Label: "コンビニお菓子我慢", Amount: 180, Category: model.CategoryFood},
	{ID: "preset-beer", Label: "缶ビール我慢", Amount: 250, Category: model.CategoryAlcohol},
	{ID: "preset-gacha", Label: "ガチャ我慢", Amount: 300, Category: model.CategoryGamble},
	{ID: "preset-impulse-buy", Label: "衝動買い回避", Amount: 1000, Category: model.CategoryShopping},
	{ID: "preset-work-cafe", Label: "作業カフェ代節約", Amount: 400, Category: model.CategoryWork},
	{ID: "preset-taxi", Label: "タクシーやめて歩く", Amount: 700, Category: model.CategoryOther},
}

// seedTips is the coaching-message starter set. Tips are read-only after
// seeding; the app only ever selects from them.
var seedTips = []model.Tip{
	{ID: "tip-001", Text: "小さな我慢の積み重ねが、大きな余裕になります。"},
	{ID: "tip-002", Text: "買う前に10秒だけ待ってみましょう。本当に必要ですか?"},
	{ID: "tip-003", Text: "今日の節約は、未来の自分への仕送りです。"},
	{ID: "tip-004", Text: "記録するだけで、使い方は自然と変わっていきます。"},
	{ID: "tip-005", Text: "ゼロの日があっても大丈夫。続けることが一番の近道です。"},
	{ID: "tip-006", Text: "誘惑に勝った自分を、ちゃんと褒めてあげましょう。"},
	{ID: "tip-007", Text: "金額の大小より、回数を重ねることを意識してみましょう。"},
	{ID: "tip-008", Text: "目標額を決めると、我慢が楽しみに変わります。"},
	{ID: "tip-009", Text: "のどが渇いたら、まず水筒。それだけで月数千円です。"},
	{ID: "tip-010", Text: "昨日の自分より一歩前へ。グラフは正直です。"},
}

// EnsureSeedData reconciles seed content on cold start: presets and tips are
// bulk-inserted only when their collection is empty, then settings defaults
// are filled in per key. Idempotent; safe on both fresh and existing stores.
func (s *Store) EnsureSeedData() error {
	presetCount, err := s.PresetCount()
	if err != nil {
		return fmt.Errorf("counting presets: %w", err)
	}
	if presetCount == 0 {
		for _, p := range seedPresets {
			if _, err := s.PutPreset(p); err != nil {
				return err
			}
		}
	}

	tipCount, err := s.TipCount()
	if err != nil {
		return fmt.Errorf("counting tips: %w", err)
	}
	if tipCount == 0 {
		if err := s.insertTips(seedTips); err != nil {
			return err
		}
	}

	return s.EnsureDefaultSettings()
}

func (s *Store) insertTips(tips []model.Tip) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tips {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO tips (id, text) VALUES (?, ?)`, t.ID, t.Text,
		); err != nil {
			return fmt.Errorf("seeding tip %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.notify(Tips)
	return nil
}
