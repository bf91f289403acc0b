package storage

import "github.com/mvp-joe/fastsearch/internal/model"

const statQuery = `
WITH stats AS (
	SELECT
		COUNT(CASE WHEN is_dir = 0 THEN 1 END) AS nb_files,
		COUNT(CASE WHEN is_dir = 1 THEN 1 END) AS nb_folders,
		COALESCE(SUM(CASE WHEN is_dir = 0 THEN size ELSE 0 END), 0) AS total_size,
		COUNT(CASE WHEN is_indexed = 1 AND is_indexable = 1 THEN 1 END) AS indexed_files,
		COUNT(CASE WHEN is_indexed = 0 AND is_indexable = 1 THEN 1 END) AS unindexed_files,
		COUNT(CASE WHEN content_indexed = 1 AND is_indexable = 1 THEN 1 END) AS content_indexed_files,
		COUNT(CASE WHEN content_indexed = 0 AND is_indexable = 1 THEN 1 END) AS uncontent_indexed_files,
		COUNT(CASE WHEN is_indexable = 0 THEN 1 END) AS unindexable_files
	FROM files
)
SELECT nb_files, nb_folders, total_size, indexed_files, unindexed_files,
       content_indexed_files, uncontent_indexed_files, unindexable_files
FROM stats`

// GetStat runs one aggregated query over files and computes the derived
// percentages in memory, guarding zero denominators.
func (s *Store) GetStat() (model.Stat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st model.Stat
	row := s.db.QueryRow(statQuery)
	err := row.Scan(
		&st.NbFiles, &st.NbFolders, &st.TotalSize,
		&st.IndexedFiles, &st.UnindexedFiles,
		&st.ContentIndexedFiles, &st.UncontentIndexedFiles, &st.UnindexableFiles,
	)
	if err != nil {
		return model.Stat{}, dbErr("Store.GetStat", err)
	}
	st.ComputePercentages()
	return st, nil
}
