package datastore

// Queries are written with '?' placeholders and passed through Adapter.Rebind before use.
const (
	createCatalogQuery             = "INSERT INTO catalog (name, source_language) VALUES (?, ?)"
	updateCatalogQuery             = "UPDATE catalog SET source_language = ? WHERE id = ?"
	getAllCatalogsQuery            = "SELECT name FROM catalog ORDER BY name"
	getSingleCatalogQuery          = "SELECT id, name, source_language FROM catalog WHERE name = ?"
	getSingleCatalogIdQuery        = "SELECT id FROM catalog WHERE name = ?"
	createLanguageQuery            = "INSERT INTO language (code, name) VALUES (?, ?)"
	getAllLanguagesQuery           = "SELECT id, code, name FROM language ORDER BY code"
	getSingleLanguageQuery         = "SELECT id, code, name FROM language WHERE code = ?"
	createMessageQuery             = "INSERT INTO message (catalog_id, context, source, comment, extra_comment, locations, numerus, position) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	updateMessageQuery             = "UPDATE message SET extra_comment = ?, locations = ?, numerus = ?, position = ? WHERE id = ?"
	deleteMessageQuery             = "DELETE FROM message WHERE id = ?"
	getSingleMessageIdQuery        = "SELECT id FROM message WHERE catalog_id = ? AND context = ? AND source = ? AND comment = ?"
	getCatalogMessageQuery         = "SELECT id, numerus FROM message WHERE catalog_id = ? AND id = ?"
	getCatalogMessagesQuery        = "SELECT id, context, source, comment, extra_comment, locations, numerus FROM message WHERE catalog_id = ? ORDER BY position, id"
	createTranslationQuery         = "INSERT INTO translation (language_id, message_id, content, numerus_forms, status, translator_comment) VALUES (?, ?, ?, ?, ?, ?)"
	updateTranslationQuery         = "UPDATE translation SET content = ?, numerus_forms = ?, status = ?, translator_comment = ? WHERE id = ?"
	deleteTranslationQuery         = "DELETE FROM translation WHERE id = ?"
	deleteMessageTranslationsQuery = "DELETE FROM translation WHERE message_id = ?"
	getSingleTranslationIdQuery    = "SELECT id FROM translation WHERE message_id = ? AND language_id = ?"
	getCatalogTranslationsQuery    = "SELECT translation.id, translation.message_id, language.code, translation.content, translation.numerus_forms, translation.status, translation.translator_comment FROM translation INNER JOIN message ON message.id = translation.message_id INNER JOIN language ON language.id = translation.language_id WHERE message.catalog_id = ? ORDER BY translation.message_id, language.code"
)
