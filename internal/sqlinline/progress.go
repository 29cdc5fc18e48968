package sqlinline

const QGetProgress = `--sql 2eeb1714-031f-4341-8ac5-2d0c63872e53
select id, user_id, media_type, sort_by, current_page, current_index, total_generated, last_media_id, updated_at
from blog_generation_progress
where user_id = $1 and media_type = $2 and sort_by = $3;
`

// Lazy-create merge: null patch fields keep the stored value, and a fresh
// row starts at page 1 / index 0.
const QUpsertProgress = `--sql b76896a8-6685-4e4b-9c89-04378131feb9
insert into blog_generation_progress (user_id, media_type, sort_by, current_page, current_index, total_generated, last_media_id)
values ($1, $2, $3, coalesce($4, 1), coalesce($5, 0), coalesce($6, 0), coalesce($7, 0))
on conflict (user_id, media_type, sort_by) do update
set current_page = coalesce($4, blog_generation_progress.current_page),
    current_index = coalesce($5, blog_generation_progress.current_index),
    total_generated = coalesce($6, blog_generation_progress.total_generated),
    last_media_id = coalesce($7, blog_generation_progress.last_media_id),
    updated_at = now()
returning id, user_id, media_type, sort_by, current_page, current_index, total_generated, last_media_id, updated_at;
`

const QResetProgress = `--sql 42e91679-e0f0-466a-8c5a-545b84963c1e
delete from blog_generation_progress
where user_id = $1 and media_type = $2 and sort_by = $3;
`

const QListProgressForUser = `--sql 3c00c6d0-615b-4605-ab88-b3b4dcdd1813
select id, user_id, media_type, sort_by, current_page, current_index, total_generated, last_media_id, updated_at
from blog_generation_progress
where user_id = $1
order by updated_at desc;
`
