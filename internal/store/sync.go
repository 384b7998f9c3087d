package store

import (
	"database/sql"

	"github.com/dbalmain/kbsr/internal/deck"
)

// SyncDecks reconciles the parsed deck files with the store in one write
// transaction (§4.7). On any error the transaction rolls back and the store
// is left byte-identical to its pre-sync state.
func (db *DB) SyncDecks(decks []*deck.Deck) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return wrapStorageErr("begin sync transaction", err)
	}
	defer tx.Rollback()

	seenDecks := make([]string, 0, len(decks))
	for _, d := range decks {
		seenDecks = append(seenDecks, d.Name)
		if err := syncDeck(tx, d); err != nil {
			return err
		}
	}

	if err := deleteMissingDecks(tx, seenDecks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return wrapStorageErr("commit sync transaction", err)
	}
	return nil
}

func syncDeck(tx *sql.Tx, d *deck.Deck) error {
	if _, err := tx.Exec(`
		INSERT INTO decks (name, mode) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET mode = excluded.mode
	`, d.Name, d.Mode.String()); err != nil {
		return wrapStorageErr("upsert deck", err)
	}

	seenKeybinds := make([]string, 0, len(d.Cards))
	for _, c := range d.Cards {
		seenKeybinds = append(seenKeybinds, c.KeybindText)

		var existingDesc string
		err := tx.QueryRow(`
			SELECT description FROM cards WHERE deck_name = ? AND keybind = ?
		`, d.Name, c.KeybindText).Scan(&existingDesc)

		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.Exec(`
				INSERT INTO cards (deck_name, keybind, description, stability, difficulty, last_review, due, reps, lapses)
				VALUES (?, ?, ?, 0, 0, NULL, NULL, 0, 0)
			`, d.Name, c.KeybindText, c.Description); err != nil {
				return wrapStorageErr("insert card", err)
			}
		case err != nil:
			return wrapStorageErr("lookup card", err)
		case existingDesc != c.Description:
			if _, err := tx.Exec(`
				UPDATE cards
				SET description = ?, stability = 0, difficulty = 0, last_review = NULL, due = NULL, reps = 0, lapses = 0
				WHERE deck_name = ? AND keybind = ?
			`, c.Description, d.Name, c.KeybindText); err != nil {
				return wrapStorageErr("reset card", err)
			}
		}
		// Description unchanged: leave the row (and its FSRS state) untouched.
	}

	if err := deleteMissingCards(tx, d.Name, seenKeybinds); err != nil {
		return err
	}

	if len(d.Cards) == 0 {
		if _, err := tx.Exec(`DELETE FROM decks WHERE name = ?`, d.Name); err != nil {
			return wrapStorageErr("delete emptied deck", err)
		}
	}
	return nil
}

func deleteMissingCards(tx *sql.Tx, deckName string, keep []string) error {
	rows, err := tx.Query(`SELECT keybind FROM cards WHERE deck_name = ?`, deckName)
	if err != nil {
		return wrapStorageErr("list cards for deletion", err)
	}
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	var stale []string
	for rows.Next() {
		var kb string
		if err := rows.Scan(&kb); err != nil {
			rows.Close()
			return wrapStorageErr("scan card for deletion", err)
		}
		if !keepSet[kb] {
			stale = append(stale, kb)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return wrapStorageErr("list cards for deletion", err)
	}
	rows.Close()

	for _, kb := range stale {
		if _, err := tx.Exec(`DELETE FROM cards WHERE deck_name = ? AND keybind = ?`, deckName, kb); err != nil {
			return wrapStorageErr("delete stale card", err)
		}
	}
	return nil
}

func deleteMissingDecks(tx *sql.Tx, keep []string) error {
	rows, err := tx.Query(`SELECT name FROM decks`)
	if err != nil {
		return wrapStorageErr("list decks for deletion", err)
	}
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return wrapStorageErr("scan deck for deletion", err)
		}
		if !keepSet[name] {
			stale = append(stale, name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return wrapStorageErr("list decks for deletion", err)
	}
	rows.Close()

	for _, name := range stale {
		if _, err := tx.Exec(`DELETE FROM decks WHERE name = ?`, name); err != nil {
			return wrapStorageErr("delete stale deck", err)
		}
	}
	return nil
}
