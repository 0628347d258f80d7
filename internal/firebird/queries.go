package firebird

// Catalog queries against the Firebird system tables. User relations are the
// ones with a zero or null RDB$SYSTEM_FLAG; names come back space-padded and
// are trimmed on scan.

const relationsQuery = `
	SELECT RDB$RELATION_NAME, RDB$VIEW_BLR
	FROM RDB$RELATIONS
	WHERE COALESCE(RDB$SYSTEM_FLAG, 0) = 0
	ORDER BY RDB$RELATION_NAME`

const columnsQuery = `
	SELECT
		rf.RDB$RELATION_NAME,
		rf.RDB$FIELD_NAME,
		f.RDB$FIELD_TYPE,
		f.RDB$FIELD_SUB_TYPE,
		f.RDB$FIELD_LENGTH,
		f.RDB$FIELD_PRECISION,
		f.RDB$FIELD_SCALE,
		COALESCE(rf.RDB$NULL_FLAG, f.RDB$NULL_FLAG, 0)
	FROM RDB$RELATION_FIELDS rf
	JOIN RDB$FIELDS f ON rf.RDB$FIELD_SOURCE = f.RDB$FIELD_NAME
	JOIN RDB$RELATIONS r ON r.RDB$RELATION_NAME = rf.RDB$RELATION_NAME
	WHERE COALESCE(r.RDB$SYSTEM_FLAG, 0) = 0
	ORDER BY rf.RDB$RELATION_NAME, rf.RDB$FIELD_POSITION`

// For foreign keys the second join resolves the referenced primary/unique
// constraint, whose index spells out the referenced columns.
const constraintsQuery = `
	SELECT
		rc.RDB$RELATION_NAME,
		rc.RDB$CONSTRAINT_NAME,
		rc.RDB$CONSTRAINT_TYPE,
		rc.RDB$INDEX_NAME,
		fk.RDB$UPDATE_RULE,
		fk.RDB$DELETE_RULE,
		pk.RDB$RELATION_NAME,
		pk.RDB$INDEX_NAME
	FROM RDB$RELATION_CONSTRAINTS rc
	LEFT JOIN RDB$REF_CONSTRAINTS fk ON rc.RDB$CONSTRAINT_NAME = fk.RDB$CONSTRAINT_NAME
	LEFT JOIN RDB$RELATION_CONSTRAINTS pk ON fk.RDB$CONST_NAME_UQ = pk.RDB$CONSTRAINT_NAME
	ORDER BY rc.RDB$RELATION_NAME, rc.RDB$CONSTRAINT_NAME`

const indexSegmentsQuery = `
	SELECT RDB$INDEX_NAME, RDB$FIELD_NAME, RDB$FIELD_POSITION
	FROM RDB$INDEX_SEGMENTS
	ORDER BY RDB$INDEX_NAME, RDB$FIELD_POSITION`
