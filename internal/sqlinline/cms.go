package sqlinline

const QSelectActiveGames = `--sql 5e819dc3-4516-4b74-bc64-e9031c254f29
select universe_id, name, coalesce(description, ''), coalesce(thumbnail_url, ''), is_featured, display_order
from cms_games
where is_active
order by display_order, universe_id;
`

const QSelectActiveGroups = `--sql 41bc5554-4a1e-40c8-9d4a-1eb6c8f026ed
select group_id, name
from cms_groups
where is_active
order by group_id;
`

const QCountGames = `--sql 1af4a7e8-5a38-4bc4-b535-018cc6b21542
select count(*) from cms_games;
`

const QSeedGame = `--sql 7bfd2552-e499-4e83-985d-a63e565cb91c
insert into cms_games(universe_id, name, description, thumbnail_url, is_active, is_featured, display_order)
values ($1::bigint, $2::text, nullif($3::text, ''), nullif($4::text, ''), true, $5::boolean, $6::int)
on conflict (universe_id) do nothing;
`

const QSeedGroup = `--sql 6b64a2de-bf1d-4ffe-a433-a3047c2ee8ed
insert into cms_groups(group_id, name, is_active)
values ($1::bigint, $2::text, true)
on conflict (group_id) do nothing;
`
