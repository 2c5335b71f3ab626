package sqlinline

const QListThreadColors = `--sql dea7d7b3-0c19-48d1-99c6-9a7effb064ad
select code, hue, saturation, value
from thread_colors
order by code asc;
`

const QUpsertThreadColor = `--sql 365db041-290c-49c7-884a-ff7699c10ce5
insert into thread_colors (code, hue, saturation, value, created_at, updated_at)
values ($1::text, $2::int, $3::int, $4::int, now(), now())
on conflict (code) do update set
    hue = excluded.hue,
    saturation = excluded.saturation,
    value = excluded.value,
    updated_at = now()
returning (xmax = 0) as created;
`

const QListCharacteristics = `--sql 3d3158a1-9241-4e7e-a4b0-e5a7e8c21a87
select ulos_type, garis, pola, warna_dominasi, warna_aksen, kontras_warna
from ulos_characteristics
order by ulos_type asc;
`

const QUpsertCharacteristic = `--sql 93e83f48-b9fb-4025-bf10-f53567a27d32
insert into ulos_characteristics (ulos_type, garis, pola, warna_dominasi, warna_aksen, kontras_warna, updated_at)
values ($1::text, $2::text, $3::text, $4::text, $5::text, $6::text, now())
on conflict (ulos_type) do update set
    garis = excluded.garis,
    pola = excluded.pola,
    warna_dominasi = excluded.warna_dominasi,
    warna_aksen = excluded.warna_aksen,
    kontras_warna = excluded.kontras_warna,
    updated_at = now();
`

const QListMotifsByType = `--sql 33a90c10-1c9f-4e72-9013-d0330328a1b7
select id, ulos_type, name, storage_key, format, created_at
from motifs
where ulos_type = $1::text
order by name asc, id asc;
`

const QSelectMotifByID = `--sql 10ea2de0-480d-4377-a09a-dacf3d881f53
select id, ulos_type, name, storage_key, format, created_at
from motifs
where id = $1::text;
`

const QInsertMotif = `--sql 7f644229-1559-4082-9b7b-ecbe92d1cb40
insert into motifs (id, ulos_type, name, storage_key, format, created_at)
values ($1::text, $2::text, $3::text, $4::text, $5::text, now())
on conflict (id) do nothing;
`

const QListUlosTypes = `--sql fa89e9e1-d7d3-4d5b-9508-6f1bff63cca3
select ulos_type from ulos_characteristics
union
select distinct ulos_type from motifs
order by 1;
`
